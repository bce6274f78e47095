package seed_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	employeeDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-approval/internal/core/role"
	"github.com/frahmantamala/leave-approval/internal/seed"
	"github.com/frahmantamala/leave-approval/internal/transport"
)

type plainHasher struct{ err error }

func (h plainHasher) HashPassword(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hash:" + p, nil
}

var _ = Describe("Seeder", func() {
	var (
		ctx    context.Context
		gdb    *gorm.DB
		db     *sqlx.DB
		seeder *seed.Seeder
		lg     *slog.Logger
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		gdb, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(gdb.AutoMigrate(&employeeDatamodel.Employee{}, &leaveDatamodel.Request{})).To(Succeed())

		db = sqlx.NewDb(sqlDB, "sqlite3")
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
		seeder = seed.NewSeeder(db, plainHasher{}, "123456", lg)
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	employees := func() []employeeDatamodel.Employee {
		var list []employeeDatamodel.Employee
		Expect(gdb.Order("id").Find(&list).Error).To(Succeed())
		return list
	}

	It("seeds one employee per tier wired into a chain", func() {
		result, err := seeder.Seed(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Seeded).To(BeTrue())
		Expect(result.Accounts).To(HaveLen(3))

		list := employees()
		Expect(list).To(HaveLen(3))
		Expect(list[0].Role).To(Equal(string(role.Top)))
		Expect(list[0].ManagerID).To(BeNil())
		Expect(*list[1].ManagerID).To(Equal(list[0].ID))
		Expect(*list[2].ManagerID).To(Equal(list[1].ID))
		Expect(list[2].PasswordHash).To(Equal("hash:123456"))
	})

	It("skips when employees already exist", func() {
		_, err := seeder.Seed(ctx)
		Expect(err).NotTo(HaveOccurred())

		result, err := seeder.Seed(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Seeded).To(BeFalse())
		Expect(employees()).To(HaveLen(3))
	})

	It("reset wipes requests and reseeds", func() {
		first, err := seeder.Seed(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(gdb.Create(&leaveDatamodel.Request{
			EmployeeID: first.Accounts[2].ID,
			ApproverID: first.Accounts[1].ID,
			Type:       "annual",
			FromDate:   time.Now(),
			ToDate:     time.Now().Add(48 * time.Hour),
			Status:     "pending",
			Version:    1,
		}).Error).To(Succeed())

		result, err := seeder.Reset(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Seeded).To(BeTrue())
		Expect(employees()).To(HaveLen(3))

		var requests int64
		Expect(gdb.Model(&leaveDatamodel.Request{}).Count(&requests).Error).To(Succeed())
		Expect(requests).To(BeZero())
	})

	It("rolls back when hashing fails", func() {
		failing := seed.NewSeeder(db, plainHasher{err: errors.New("nope")}, "123456", lg)
		_, err := failing.Seed(ctx)
		Expect(err).To(HaveOccurred())
		Expect(employees()).To(BeEmpty())
	})

	It("serves seed and reset over HTTP", func() {
		h := seed.NewHandler(transport.NewBaseHandler(lg), seeder)

		rec := httptest.NewRecorder()
		h.Seed(rec, httptest.NewRequest(http.MethodPost, "/auth/seed", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		var body seed.Result
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Accounts).To(HaveLen(3))

		rec = httptest.NewRecorder()
		h.Reset(rec, httptest.NewRequest(http.MethodPost, "/auth/reset", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
