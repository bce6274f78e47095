package role_test

import (
	"encoding/json"

	"github.com/frahmantamala/leave-approval/internal/core/role"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Role", func() {
	DescribeTable("Parse",
		func(in string, expected role.Role) {
			r, err := role.Parse(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(Equal(expected))
		},
		Entry("lower case top", "top", role.Top),
		Entry("upper case mid", "MID", role.Mid),
		Entry("mixed case with spaces", "  Base ", role.Base),
	)

	It("rejects unknown names", func() {
		_, err := role.Parse("emperor")
		Expect(err).To(HaveOccurred())
		Expect(role.Role("admin").Valid()).To(BeFalse())
	})

	It("orders tiers by rank", func() {
		Expect(role.Top.Rank()).To(BeNumerically(">", role.Mid.Rank()))
		Expect(role.Mid.Rank()).To(BeNumerically(">", role.Base.Rank()))
	})

	It("resolves the adjacent manager tier", func() {
		m, ok := role.Base.ManagerTier()
		Expect(ok).To(BeTrue())
		Expect(m).To(Equal(role.Mid))

		m, ok = role.Mid.ManagerTier()
		Expect(ok).To(BeTrue())
		Expect(m).To(Equal(role.Top))

		_, ok = role.Top.ManagerTier()
		Expect(ok).To(BeFalse())
	})

	It("decodes JSON case-insensitively", func() {
		var payload struct {
			Role role.Role `json:"role"`
		}
		Expect(json.Unmarshal([]byte(`{"role":"Top"}`), &payload)).To(Succeed())
		Expect(payload.Role).To(Equal(role.Top))
		Expect(json.Unmarshal([]byte(`{"role":"king"}`), &payload)).NotTo(Succeed())
	})
})
