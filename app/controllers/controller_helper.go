package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ADAMSmugwe/adakev-isp/app/repository"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/database"
)

const (
	AUTH_KEY       string = "authenticated"
	USER_ID        string = "user_id"
	USER_NAME      string = "username"
	USER_IS_ADMIN  string = "isAdmin"
	FROM_PROTECTED string = "from_protected"
)

// repos returns the global repository bundle, initializing it on first use
func repos() *repository.Repositories {
	if repository.GetGlobalFactory() == nil {
		repository.InitializeFactory(database.GetDB())
	}
	return repository.GetGlobalFactory().GetRepositories()
}

// currentCustomerID resolves the logged-in user's customer profile ID.
// Returns 0 when the user has no profile.
func currentCustomerID(c *fiber.Ctx, userID uint) uint {
	customer, err := repos().Customer.GetByUserID(userID)
	if err != nil {
		return 0
	}
	return customer.ID
}
