package cmd

import (
	"context"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pressly/goose/v3"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/leave-approval/internal"
	employeeDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/leave"
	employeePostgres "github.com/frahmantamala/leave-approval/internal/employee/postgres"
	leavePostgres "github.com/frahmantamala/leave-approval/internal/leave/postgres"
)

const migrationsDir = "../db/migrations"

// testDatabaseEnv names a disposable Postgres database; the specs that need
// one are skipped without it.
const testDatabaseEnv = "LEAVE_APPROVAL_TEST_DATABASE_URL"

var _ = Describe("migrations", func() {
	It("are collected in order", func() {
		ms, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
		Expect(err).NotTo(HaveOccurred())
		Expect(ms).To(HaveLen(2))
		Expect(ms[0].Version).To(BeEquivalentTo(1))
		Expect(ms[1].Version).To(BeEquivalentTo(2))
	})

	Context("against postgres", func() {
		var (
			ctx      context.Context
			gdb      *gorm.DB
			requests *leavePostgres.RequestRepository
			staffID  int64
			leadID   int64
		)

		BeforeEach(func() {
			dsn := os.Getenv(testDatabaseEnv)
			if dsn == "" {
				Skip(testDatabaseEnv + " is not set")
			}
			ctx = context.Background()

			db, err := goose.OpenDBWithDriver("pgx", dsn)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(db.Close)
			goose.SetTableName(migrationTable)
			Expect(goose.RunContext(ctx, "up", db, migrationsDir)).To(Succeed())
			DeferCleanup(func() {
				Expect(goose.RunContext(context.Background(), "reset", db, migrationsDir)).To(Succeed())
			})

			gdb, err = gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db}), &gorm.Config{
				Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
				TranslateError: true,
			})
			Expect(err).NotTo(HaveOccurred())

			employees := employeePostgres.NewEmployeeRepository(gdb)
			top := &employeeDatamodel.Employee{Email: "d@x.io", FullName: "D", PasswordHash: "h", Role: "top"}
			Expect(employees.Create(ctx, top)).To(Succeed())
			lead := &employeeDatamodel.Employee{Email: "l@x.io", FullName: "L", PasswordHash: "h", Role: "mid", ManagerID: &top.ID}
			Expect(employees.Create(ctx, lead)).To(Succeed())
			staff := &employeeDatamodel.Employee{Email: "s@x.io", FullName: "S", PasswordHash: "h", Role: "base", ManagerID: &lead.ID}
			Expect(employees.Create(ctx, staff)).To(Succeed())
			staffID, leadID = staff.ID, lead.ID

			requests = leavePostgres.NewRequestRepository(gdb)
		})

		newRequest := func(from, to time.Time) *leaveDatamodel.Request {
			return &leaveDatamodel.Request{
				EmployeeID: staffID, ApproverID: leadID, Type: "annual",
				FromDate: from, ToDate: to, Status: "pending", Version: 1,
			}
		}

		It("stores a same-day timed period without rounding", func() {
			from := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
			to := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)
			req := newRequest(from, to)
			Expect(requests.Create(ctx, req)).To(Succeed())

			stored, err := requests.GetByID(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.FromDate).To(BeTemporally("==", from))
			Expect(stored.ToDate).To(BeTemporally("==", to))
		})

		It("rejects an inverted period at the database", func() {
			at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
			Expect(requests.Create(ctx, newRequest(at, at))).NotTo(Succeed())
		})

		It("allows a single top-tier employee", func() {
			second := &employeeDatamodel.Employee{Email: "d2@x.io", FullName: "D2", PasswordHash: "h", Role: "top"}
			Expect(employeePostgres.NewEmployeeRepository(gdb).Create(ctx, second)).To(MatchError(internal.ErrTopTierExists))
		})
	})
})
