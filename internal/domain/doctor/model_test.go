package doctor

import (
	"encoding/json"
	"testing"
)

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"false"`, false},
		{`1`, true},
		{`0`, false},
		{`"1"`, true},
	}
	for _, tt := range tests {
		var req UpdateRequest
		if err := json.Unmarshal([]byte(`{"is_active":`+tt.in+`}`), &req); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if req.IsActive == nil || bool(*req.IsActive) != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.in, tt.want, req.IsActive)
		}
	}

	var req UpdateRequest
	if err := json.Unmarshal([]byte(`{"is_active":"maybe"}`), &req); err == nil {
		t.Error("expected error for non-boolean value")
	}
}

func TestUpdateRequest_Patch(t *testing.T) {
	var req UpdateRequest
	json.Unmarshal([]byte(`{"city":"Pune","is_active":"false"}`), &req)

	p := req.Patch()
	if len(p) != 2 || p["city"] != "Pune" || p["is_active"] != false {
		t.Errorf("unexpected patch %v", p)
	}
	if err := Schema.Validate(p); err != nil {
		t.Errorf("expected valid patch, got %v", err)
	}
}
