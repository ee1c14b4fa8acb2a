package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/database"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/session"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		var user models.User

		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
		if result.Error != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(AUTH_KEY, true)
		sess.Set(USER_ID, user.ID)
		sess.Set(USER_NAME, user.Name)
		sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)

		err = sess.Save()
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		database.GetDB().Model(&user).Update("last_login_at", time.Now())

		fm = fiber.Map{
			"type":    "success",
			"message": fmt.Sprintf("Welcome back, %s!", user.Name),
		}

		return flash.WithSuccess(c, fm).Redirect("/dashboard")
	}

	return c.Render("auth/login", fiber.Map{
		"Title": "Login",
		"Flash": flash.Get(c),
	})
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	err = sess.Destroy()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "info",
		"message": "You have been logged out successfully.",
	}

	c.Locals(FROM_PROTECTED, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		user, err := models.CreateUser(c.FormValue("name"), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		err = database.GetDB().Create(&user).Error
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		customer, err := models.NewCustomer(
			user.ID,
			c.FormValue("phone_number"),
			c.FormValue("address"),
			c.FormValue("id_number"),
		)
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := database.GetDB().Create(&customer).Error; err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		// Log the new customer in right away
		sess, err := session.GetSessionStore().Get(c)
		if err == nil {
			sess.Set(AUTH_KEY, true)
			sess.Set(USER_ID, user.ID)
			sess.Set(USER_NAME, user.Name)
			sess.Set(USER_IS_ADMIN, false)
			_ = sess.Save()
		}

		fm := fiber.Map{
			"type":    "success",
			"message": fmt.Sprintf("Account created successfully! Welcome, %s!", user.Name),
		}

		return flash.WithSuccess(c, fm).Redirect("/dashboard")
	}

	return c.Render("auth/register", fiber.Map{
		"Title": "Register",
		"Flash": flash.Get(c),
	})
}
