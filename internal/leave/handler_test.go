package leave_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/core/role"
	"github.com/frahmantamala/leave-approval/internal/leave"
	"github.com/frahmantamala/leave-approval/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var (
		router *chi.Mux
		caller *internal.Principal

		top      = &internal.Principal{ID: 1, Role: role.Top}
		mid      = &internal.Principal{ID: 2, Role: role.Mid}
		employee = &internal.Principal{ID: 3, Role: role.Base}
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		directory := &mockDirectory{
			managers: map[int64]*int64{1: nil, 2: ptr(int64(1)), 3: ptr(int64(2))},
			top:      ptr(int64(1)),
		}
		service := leave.NewService(newMockRepository(), directory, nil, lg)
		handler := &leave.Handler{BaseHandler: transport.NewBaseHandler(lg), Service: service}

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
		router.Post("/requests", handler.CreateRequest)
		router.Get("/requests/mine", handler.ListMine)
		router.Get("/requests/inbox/mid", handler.MidInbox)
		router.Get("/requests/inbox/top", handler.TopInbox)
		router.Get("/requests/{id}", handler.GetRequest)
		router.Post("/requests/{id}/decision/mid", handler.DecideMid)
		router.Post("/requests/{id}/decision/top", handler.DecideTop)
		router.Delete("/requests/{id}", handler.DeleteRequest)
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

	errorCode := func(rec *httptest.ResponseRecorder) string {
		return decode(rec)["error"].(map[string]interface{})["code"].(string)
	}

	It("walks a request through both approval stages", func() {
		rec := do(employee, http.MethodPost, "/requests", map[string]interface{}{
			"type": "AnnualLeave", "from": "2025-06-01", "to": "2025-06-05", "comment": "beach",
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))
		created := decode(rec)
		Expect(created["status"]).To(Equal("pending"))
		Expect(created["approver_id"]).To(BeEquivalentTo(2))

		rec = do(mid, http.MethodGet, "/requests/inbox/mid", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["requests"]).To(HaveLen(1))

		rec = do(mid, http.MethodPost, "/requests/1/decision/mid", map[string]interface{}{"approve": true, "version": 1})
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["status"]).To(Equal("approved_by_mid"))

		rec = do(top, http.MethodGet, "/requests/inbox/top", nil)
		Expect(decode(rec)["requests"]).To(HaveLen(1))

		rec = do(top, http.MethodPost, "/requests/1/decision/top", map[string]interface{}{
			"approve": true, "finalFrom": "2025-06-02", "finalTo": "2025-06-04", "version": 2,
		})
		Expect(rec.Code).To(Equal(http.StatusOK))
		approved := decode(rec)
		Expect(approved["status"]).To(Equal("approved_by_top"))
		Expect(approved["from"]).To(Equal("2025-06-02T00:00:00Z"))
		Expect(approved["version"]).To(BeEquivalentTo(3))
	})

	It("maps taxonomy errors to status codes", func() {
		rec := do(employee, http.MethodPost, "/requests", map[string]interface{}{
			"type": "annual", "from": "2025-06-05", "to": "2025-06-01",
		})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidPeriod)))

		rec = do(employee, http.MethodPost, "/requests", map[string]interface{}{
			"type": "annual", "from": "2025-06-01", "to": "2025-06-05",
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(top, http.MethodPost, "/requests/1/decision/top", map[string]interface{}{"approve": true, "version": 1})
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec = do(mid, http.MethodPost, "/requests/1/decision/mid", map[string]interface{}{"approve": true, "version": 7})
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeStaleVersion)))

		rec = do(mid, http.MethodPost, "/requests/42/decision/mid", map[string]interface{}{"approve": true, "version": 1})
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		rec = do(mid, http.MethodPost, "/requests/abc/decision/mid", map[string]interface{}{"approve": true, "version": 1})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects malformed bodies", func() {
		caller = employee
		req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidBody)))
	})

	It("answers 401 without a principal", func() {
		rec := do(nil, http.MethodGet, "/requests/mine", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("deletes with 204 and then 404", func() {
		rec := do(employee, http.MethodPost, "/requests", map[string]interface{}{
			"type": "sick", "from": "2025-06-01", "to": "2025-06-02",
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(employee, http.MethodDelete, "/requests/1", nil)
		Expect(rec.Code).To(Equal(http.StatusNoContent))

		rec = do(employee, http.MethodGet, "/requests/1", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
