package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ADAMSmugwe/adakev-isp/app/repository"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/database"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/usercontext"
)

// Pong is the ping endpoint response
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the customer-facing JSON API
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the session-authenticated v1 routes to the
// given router group; /ping is registered separately without auth.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/user/profile", s.GetUserProfile)
	router.Get("/user/invoices", s.GetUserInvoices)
	router.Get("/user/payments", s.GetUserPayments)
	router.Get("/invoices/:id", s.GetInvoice)
}

func apiRepos() *repository.Repositories {
	if repository.GetGlobalFactory() == nil {
		repository.InitializeFactory(database.GetDB())
	}
	return repository.GetGlobalFactory().GetRepositories()
}

// customerForRequest resolves the session user to a customer profile or
// writes the JSON error response.
func customerForRequest(c *fiber.Ctx) (uint, error) {
	userID := usercontext.GetUserID(c)
	customer, err := apiRepos().Customer.GetByUserID(userID)
	if err != nil {
		return 0, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Customer profile not found",
		})
	}
	return customer.ID, nil
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetUserProfile returns the authenticated customer's profile
func (s *APIServer) GetUserProfile(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	customer, err := apiRepos().Customer.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Customer profile not found",
		})
	}

	user, err := apiRepos().User.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Customer profile not found",
		})
	}

	return c.JSON(fiber.Map{
		"customer": customer,
		"name":     user.Name,
		"email":    user.Email,
	})
}

// GetUserInvoices returns the customer's invoices, newest first
func (s *APIServer) GetUserInvoices(c *fiber.Ctx) error {
	customerID, err := customerForRequest(c)
	if err != nil || customerID == 0 {
		return err
	}

	invoices, dbErr := apiRepos().Invoice.GetByCustomerID(customerID)
	if dbErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Invoices could not be loaded",
		})
	}

	return c.JSON(invoices)
}

// GetUserPayments returns the customer's payment history, newest first
func (s *APIServer) GetUserPayments(c *fiber.Ctx) error {
	customerID, err := customerForRequest(c)
	if err != nil || customerID == 0 {
		return err
	}

	payments, dbErr := apiRepos().Payment.GetByCustomerID(customerID)
	if dbErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Payments could not be loaded",
		})
	}

	return c.JSON(payments)
}

// GetInvoice returns one invoice, only if owned by the session customer
func (s *APIServer) GetInvoice(c *fiber.Ctx) error {
	customerID, err := customerForRequest(c)
	if err != nil || customerID == 0 {
		return err
	}

	invoiceID, perr := c.ParamsInt("id")
	if perr != nil || invoiceID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bad_request",
		})
	}

	invoice, dbErr := apiRepos().Invoice.GetByID(uint(invoiceID))
	if dbErr != nil || invoice.Subscription.CustomerID != customerID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}

	return c.JSON(invoice)
}
