package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/domain/appointment"
	"github.com/medcore/medcore/internal/domain/doctor"
	"github.com/medcore/medcore/internal/domain/medicalrecord"
	"github.com/medcore/medcore/internal/domain/notification"
	"github.com/medcore/medcore/internal/domain/patient"
	"github.com/medcore/medcore/internal/domain/prescription"
	"github.com/medcore/medcore/internal/domain/receptionist"
	"github.com/medcore/medcore/internal/domain/user"
	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/credential"
	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/loginguard"
	"github.com/medcore/medcore/migrations"
)

// databaseURLEnv points the suite at an existing database instead of a
// throwaway container.
const databaseURLEnv = "MEDCORE_TEST_DATABASE_URL"

// manager is the package-level connection manager, initialized once in
// TestMain with every migration applied.
var manager *db.Manager

func TestMain(m *testing.M) {
	ctx := context.Background()

	connStr, cleanup, err := connect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping integration tests: %v\n", err)
		os.Exit(0)
	}

	manager = db.NewManager(db.PoolConfig{
		URL:            connStr,
		MaxConns:       5,
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 30 * time.Second,
	})
	if _, err := db.NewMigrator(manager, migrations.FS).Up(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		manager.Close()
		cleanup()
		os.Exit(1)
	}

	code := m.Run()
	manager.Close()
	cleanup()
	os.Exit(code)
}

func connect(ctx context.Context) (string, func(), error) {
	if url := os.Getenv(databaseURLEnv); url != "" {
		return url, func() {}, nil
	}
	if _, err := exec.LookPath("docker"); err != nil {
		return "", nil, fmt.Errorf("docker not found and %s not set", databaseURLEnv)
	}
	return startPostgres(ctx)
}

// resetTables empties every table so each test starts from a blank schema.
func resetTables(t *testing.T) {
	t.Helper()
	_, err := db.Exec(context.Background(), manager, "", `
		TRUNCATE notifications, prescriptions, medicalrecords, appointments,
		         patientdetails, doctordetails, receptionist, users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("reset tables: %v", err)
	}
}

// services bundles every domain service over the shared manager.
type services struct {
	users         *user.Service
	receptionists *receptionist.Service
	doctors       *doctor.Service
	patients      *patient.Service
	appointments  *appointment.Service
	prescriptions *prescription.Service
	records       *medicalrecord.Service
	notifications *notification.Service
}

func newServices() *services {
	logger := zerolog.Nop()
	hasher := credential.NewHasher(4)
	issuer := auth.NewIssuer("integration-secret-integration-secret", time.Hour)
	guard := loginguard.New(loginguard.NewMemoryStore(), 5, time.Minute, logger)

	return &services{
		users:         user.NewService(user.NewRepo(manager), hasher, issuer, guard, logger),
		receptionists: receptionist.NewService(receptionist.NewRepo(manager), hasher, issuer, guard, logger),
		doctors:       doctor.NewService(doctor.NewRepo(manager), manager),
		patients:      patient.NewService(patient.NewRepo(manager)),
		appointments:  appointment.NewService(appointment.NewRepo(manager)),
		prescriptions: prescription.NewService(prescription.NewRepo(manager)),
		records:       medicalrecord.NewService(medicalrecord.NewRepo(manager)),
		notifications: notification.NewService(notification.NewRepo(manager), logger),
	}
}

func createUser(t *testing.T, svc *services, email, role string) *user.User {
	t.Helper()
	u, err := svc.users.Create(context.Background(), &user.CreateRequest{
		FirstName: "Test",
		LastName:  role,
		Email:     email,
		Password:  "s3cret",
		Role:      role,
	}, auth.RoleAdmin)
	if err != nil {
		t.Fatalf("create %s user: %v", role, err)
	}
	return u
}

func ptrStr(s string) *string { return &s }

func ptrInt(n int) *int { return &n }
