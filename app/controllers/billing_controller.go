package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/billing"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/database"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/mpesa"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/usercontext"
)

var (
	billingService *billing.Service
	billingOnce    sync.Once
)

// InitializeBillingController injects the billing service, used by tests
// and by router setup.
func InitializeBillingController(svc *billing.Service) {
	billingService = svc
}

func getBillingService() *billing.Service {
	billingOnce.Do(func() {
		if billingService == nil {
			billingService = billing.NewServiceFromDB(database.GetDB())
		}
	})
	return billingService
}

func HandleInvoiceList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	customerID := currentCustomerID(c, userCtx.UserID)
	if customerID == 0 {
		fm := fiber.Map{"type": "error", "message": "Customer profile not found."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	invoices, err := repos().Invoice.GetByCustomerID(customerID)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Invoices could not be loaded."}
		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	return c.Render("billing/invoices", fiber.Map{
		"Title":    "My Invoices",
		"Invoices": invoices,
		"Flash":    flash.Get(c),
	})
}

func HandleInvoiceDetail(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	customerID := currentCustomerID(c, userCtx.UserID)
	if customerID == 0 {
		fm := fiber.Map{"type": "error", "message": "Customer profile not found."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	invoiceID, err := c.ParamsInt("id")
	if err != nil || invoiceID <= 0 {
		fm := fiber.Map{"type": "error", "message": "Invoice not found or access denied."}
		return flash.WithError(c, fm).Redirect("/invoices")
	}

	invoice, err := repos().Invoice.GetByID(uint(invoiceID))
	if err != nil || invoice.Subscription.CustomerID != customerID {
		fm := fiber.Map{"type": "error", "message": "Invoice not found or access denied."}
		return flash.WithError(c, fm).Redirect("/invoices")
	}

	payments, _ := repos().Payment.GetByInvoiceID(invoice.ID)

	return c.Render("billing/invoice_detail", fiber.Map{
		"Title":    fmt.Sprintf("Invoice #%d", invoice.ID),
		"Invoice":  invoice,
		"Payments": payments,
		"Flash":    flash.Get(c),
	})
}

// HandleMpesaPaymentForm renders the phone-number form for an invoice.
func HandleMpesaPaymentForm(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	customerID := currentCustomerID(c, userCtx.UserID)
	if customerID == 0 {
		fm := fiber.Map{"type": "error", "message": "Customer profile not found."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	invoiceID, err := c.ParamsInt("id")
	if err != nil || invoiceID <= 0 {
		fm := fiber.Map{"type": "error", "message": "Invoice not found or access denied."}
		return flash.WithError(c, fm).Redirect("/invoices")
	}

	invoice, err := repos().Invoice.GetByID(uint(invoiceID))
	if err != nil || invoice.Subscription.CustomerID != customerID || !invoice.IsPayable() {
		fm := fiber.Map{"type": "error", "message": "Invoice not found or access denied."}
		return flash.WithError(c, fm).Redirect("/invoices")
	}

	customer, _ := repos().Customer.GetByID(customerID)

	return c.Render("billing/mpesa_payment", fiber.Map{
		"Title":    "Pay with M-Pesa",
		"Invoice":  invoice,
		"Customer": customer,
		"Flash":    flash.Get(c),
	})
}

// HandleInitiateMpesaPayment submits the STK push for an invoice. On
// acceptance a pending payment row exists and the user is told to confirm
// on their phone; the invoice stays PENDING until the callback settles it.
func HandleInitiateMpesaPayment(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	customerID := currentCustomerID(c, userCtx.UserID)
	if customerID == 0 {
		fm := fiber.Map{"type": "error", "message": "Customer profile not found."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	invoiceID, err := c.ParamsInt("id")
	if err != nil || invoiceID <= 0 {
		fm := fiber.Map{"type": "error", "message": "Invoice not found or access denied."}
		return flash.WithError(c, fm).Redirect("/invoices")
	}

	payURL := fmt.Sprintf("/invoices/%d/pay", invoiceID)
	phone := c.FormValue("phone_number")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := getBillingService().InitiatePayment(ctx, billing.InitiateInput{
		CustomerID:  customerID,
		InvoiceID:   uint(invoiceID),
		PhoneNumber: phone,
	})
	if err != nil {
		fm := fiber.Map{"type": "error"}

		var declined *billing.GatewayDeclinedError
		switch {
		case errors.Is(err, mpesa.ErrInvalidPhoneNumber):
			fm["message"] = "Please enter a valid M-Pesa phone number (254XXXXXXXXX)."
			return flash.WithError(c, fm).Redirect(payURL)
		case errors.Is(err, billing.ErrInvoiceNotFound):
			fm["message"] = "Invoice not found or access denied."
			return flash.WithError(c, fm).Redirect("/invoices")
		case errors.Is(err, billing.ErrInvoiceNotPayable):
			fm["message"] = "This invoice is no longer awaiting payment."
			return flash.WithError(c, fm).Redirect("/invoices")
		case errors.As(err, &declined):
			fm["message"] = fmt.Sprintf("M-Pesa rejected the request: %s", declined.Description)
			return flash.WithError(c, fm).Redirect(payURL)
		default:
			fm["message"] = "M-Pesa could not be reached. Please try again."
			return flash.WithError(c, fm).Redirect(payURL)
		}
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Payment request sent. Confirm on your phone (ref %s).", result.CheckoutRequestID),
	}
	return flash.WithSuccess(c, fm).Redirect(fmt.Sprintf("/invoices/%d", invoiceID))
}

// HandleMpesaCallback handles the gateway's asynchronous STK result. There
// is no caller authentication; the correlation token must match a recorded
// payment for anything to change. The gateway always gets a JSON
// {status, message} answer.
func HandleMpesaCallback(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	result, err := mpesa.ParseCallback(rawBody)
	if err != nil {
		return c.JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	if !result.Success() {
		// Declined or cancelled on the handset; nothing to settle.
		return c.JSON(fiber.Map{"status": "failed", "message": result.ResultDesc})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := getBillingService().SettleCallback(ctx, result); err != nil {
		return c.JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Payment processed successfully"})
}
