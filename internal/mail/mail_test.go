package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillBody(t *testing.T) {
	body := billBody(BillEmail{
		UserName:       "Asha Rao",
		WorkshopTitle:  "Advanced <Kubernetes>",
		RegistrationID: "reg-1",
		Amount:         5000,
		Currency:       "INR",
	})

	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, "INR 5000")
	assert.Contains(t, body, "&lt;Kubernetes&gt;", "user-supplied text is HTML-escaped")
	assert.NotContains(t, body, "<Kubernetes>")
}

func TestBillBody_DefaultCurrency(t *testing.T) {
	body := billBody(BillEmail{UserName: "A", WorkshopTitle: "W", Amount: 100})
	assert.Contains(t, body, "INR 100")
}

func TestAlertBody(t *testing.T) {
	body := alertBody(AdminAlert{
		WorkshopTitle:  "Go Fundamentals",
		UserName:       "<script>alert(1)</script>",
		Email:          "x@example.com",
		Phone:          "9876543210",
		RegistrationID: "reg-9",
		Amount:         2500,
		Currency:       "INR",
	})

	assert.Contains(t, body, "Go Fundamentals")
	assert.Contains(t, body, "reg-9")
	assert.NotContains(t, body, "<script>", "user-supplied text is HTML-escaped")
}
