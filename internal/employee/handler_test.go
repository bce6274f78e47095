package employee_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/leave-approval/internal"
	employeeDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-approval/internal/core/role"
	"github.com/frahmantamala/leave-approval/internal/employee"
	"github.com/frahmantamala/leave-approval/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var (
		router *chi.Mux
		caller *internal.Principal
		repo   *mockRepository

		asTop, asMid, asBase *internal.Principal
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockRepository()
		top := repo.seed(&employeeDatamodel.Employee{Email: "ceo@corp.io", FullName: "Cee", Role: "top"})
		mid := repo.seed(&employeeDatamodel.Employee{Email: "lead@corp.io", FullName: "Lee", Role: "mid", ManagerID: &top.ID})
		base := repo.seed(&employeeDatamodel.Employee{Email: "dev@corp.io", FullName: "Dee", Role: "base", ManagerID: &mid.ID})
		asTop = &internal.Principal{ID: top.ID, Role: role.Top}
		asMid = &internal.Principal{ID: mid.ID, Role: role.Mid}
		asBase = &internal.Principal{ID: base.ID, Role: role.Base}

		service := employee.NewService(repo, fakeHasher{}, nil, lg)
		handler := &employee.Handler{BaseHandler: transport.NewBaseHandler(lg), Service: service}

		caller = nil
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					r = r.WithContext(internal.ContextWithPrincipal(r.Context(), caller))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/employees/me", handler.GetCurrentEmployee)
		router.Get("/employees", handler.ListEmployees)
		router.Post("/employees", handler.CreateEmployee)
		router.Delete("/employees/{id}", handler.DeleteEmployee)
	})

	do := func(as *internal.Principal, method, path string, body interface{}) *httptest.ResponseRecorder {
		caller = as
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
		return out
	}

	It("returns the caller without the password hash", func() {
		rec := do(asBase, http.MethodGet, "/employees/me", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		body := decode(rec)
		Expect(body["email"]).To(Equal("dev@corp.io"))
		Expect(body["role"]).To(Equal("base"))
		Expect(body).NotTo(HaveKey("password_hash"))
		Expect(body).NotTo(HaveKey("PasswordHash"))
	})

	It("requires a principal", func() {
		rec := do(nil, http.MethodGet, "/employees/me", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lists employees for managers", func() {
		rec := do(asMid, http.MethodGet, "/employees", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["employees"]).To(HaveLen(3))

		rec = do(asBase, http.MethodGet, "/employees", nil)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("creates an employee", func() {
		rec := do(asTop, http.MethodPost, "/employees", map[string]interface{}{
			"name":       "New Hire",
			"email":      "new@corp.io",
			"password":   "secret123",
			"role":       "base",
			"manager_id": asMid.ID,
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))
		body := decode(rec)
		Expect(body["manager_id"]).To(BeNumerically("==", asMid.ID))
	})

	It("maps a taken email to 409", func() {
		rec := do(asTop, http.MethodPost, "/employees", map[string]interface{}{
			"name": "Dup", "email": "dev@corp.io", "password": "secret123", "role": "base",
		})
		Expect(rec.Code).To(Equal(http.StatusConflict))
	})

	It("rejects malformed bodies", func() {
		caller = asTop
		req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("deletes an employee", func() {
		rec := do(asTop, http.MethodDelete, "/employees/3", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["id"]).To(BeNumerically("==", 3))

		rec = do(asTop, http.MethodDelete, "/employees/3", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects a non-numeric id", func() {
		rec := do(asTop, http.MethodDelete, "/employees/abc", nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
