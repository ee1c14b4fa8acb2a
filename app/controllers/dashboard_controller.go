package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/usercontext"
)

// invoiceDueDays is how far in the future a fresh subscription invoice is due.
const invoiceDueDays = 30

func HandleHome(c *fiber.Ctx) error {
	if usercontext.IsLoggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	plans, _ := repos().Plan.GetActive()

	return c.Render("home/index", fiber.Map{
		"Title": "AdaKev Internet",
		"Plans": plans,
		"Flash": flash.Get(c),
	})
}

func HandleDashboard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	customer, err := repos().Customer.GetByUserID(userCtx.UserID)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Customer profile not found."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	subscriptions, _ := repos().Subscription.GetByCustomerID(customer.ID)
	invoices, _ := repos().Invoice.GetByCustomerID(customer.ID)
	payments, _ := repos().Payment.GetByCustomerID(customer.ID)

	return c.Render("dashboard/index", fiber.Map{
		"Title":         "Dashboard",
		"Customer":      customer,
		"Subscriptions": subscriptions,
		"Invoices":      invoices,
		"Payments":      payments,
		"Flash":         flash.Get(c),
	})
}

func HandlePlanList(c *fiber.Ctx) error {
	plans, err := repos().Plan.GetActive()
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Plans could not be loaded."}
		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	return c.Render("plans/index", fiber.Map{
		"Title": "Service Plans",
		"Plans": plans,
		"Flash": flash.Get(c),
	})
}

// HandlePlanSubscribe creates a NEW subscription for the chosen plan and
// bills the first month right away.
func HandlePlanSubscribe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	customer, err := repos().Customer.GetByUserID(userCtx.UserID)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Customer profile not found."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	planID, err := c.ParamsInt("id")
	if err != nil || planID <= 0 {
		fm := fiber.Map{"type": "error", "message": "Unknown service plan."}
		return flash.WithError(c, fm).Redirect("/plans")
	}

	plan, err := repos().Plan.GetByID(uint(planID))
	if err != nil || !plan.IsActive {
		fm := fiber.Map{"type": "error", "message": "Unknown service plan."}
		return flash.WithError(c, fm).Redirect("/plans")
	}

	subscription := &models.Subscription{
		CustomerID: customer.ID,
		PlanID:     plan.ID,
		Status:     models.SubscriptionStatusNew,
		StartDate:  time.Now(),
	}
	if err := repos().Subscription.Create(subscription); err != nil {
		fm := fiber.Map{"type": "error", "message": "Subscription could not be created."}
		return flash.WithError(c, fm).Redirect("/plans")
	}

	invoice := &models.Invoice{
		SubscriptionID: subscription.ID,
		Amount:         plan.Price,
		Status:         models.InvoiceStatusPending,
		DueDate:        time.Now().AddDate(0, 0, invoiceDueDays),
	}
	if err := repos().Invoice.Create(invoice); err != nil {
		fm := fiber.Map{"type": "error", "message": "Invoice could not be created."}
		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Subscribed to %s. Invoice #%d of KSh %s is due.", plan.Label(), invoice.ID, invoice.Amount),
	}
	return flash.WithSuccess(c, fm).Redirect("/invoices")
}
