package controller

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/email"
	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/referral"
	"postpro_backend/pkg/utils/jwt"
)

var validate = validator.New()

type RegisterInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	DisplayName  string `json:"display_name" validate:"required"`
	ReferralCode string `json:"referral_code"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func InitAuthController() {}

// generateUsername builds a URL-friendly unique username from the display
// name.
func generateUsername(displayName string) string {
	username := slug.Make(displayName)

	var count int64
	database.GetDB().Model(&model.User{}).
		Where("username LIKE ?", username+"%").Count(&count)
	if count > 0 {
		username = username + "-" + uuid.New().String()[:8]
	}
	return username
}

func Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var existingUser model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	user := model.User{
		Email:        input.Email,
		Password:     string(hashedPassword),
		Username:     generateUsername(input.DisplayName),
		DisplayName:  input.DisplayName,
		ReferralCode: uuid.New().String()[:8],
	}

	// Resolve the referrer before creating the user so a bad code fails
	// soft, not the whole registration.
	var referrer *model.User
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		var ref model.User
		if err := database.GetDB().Where("referral_code = ?", code).First(&ref).Error; err == nil {
			referrer = &ref
		}
	}
	if referrer != nil {
		user.ReferredByID = &referrer.ID
	}

	if err := database.GetDB().Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	// Usage row starts on the free plan with the first reset a month out.
	usageRecord := model.UsageRecord{
		UserID:           user.ID,
		PlanName:         string(plan.FreePlan),
		MonthlyResetDate: time.Now().AddDate(0, 1, 0),
	}
	if err := database.GetDB().Create(&usageRecord).Error; err != nil {
		log.Printf("Could not create usage record for user %d: %v", user.ID, err)
	}

	if referrer != nil {
		granted, err := referral.Apply(referrer.ID, user.ID, plan.FreePlan)
		if err != nil {
			log.Printf("Could not apply referral for user %d: %v", user.ID, err)
		} else if granted && email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendReferralBonusEmail(
				referrer.Email, referrer.DisplayName, user.DisplayName, referral.FreeReferralBonus,
			); err != nil {
				log.Printf("Could not send referral bonus email: %v", err)
			}
		}
	}

	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendWelcomeEmail(user.Email, user.DisplayName); err != nil {
			log.Printf("Could not send welcome email: %v", err)
		}
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"token":   token,
		"user":    user.GetPublicProfile(),
	})
}

func Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	history := model.LoginHistory{
		UserID: user.ID,
		Device: c.Get("User-Agent"),
		IP:     c.IP(),
	}
	if err := database.GetDB().Create(&history).Error; err != nil {
		log.Printf("Could not record login history: %v", err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":           user.ID,
			"email":        user.Email,
			"username":     user.Username,
			"display_name": user.DisplayName,
		},
	})
}

type RequestResetInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func RequestPasswordReset(c *fiber.Ctx) error {
	input := new(RequestResetInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Same response whether or not the account exists.
	var user model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&user).Error; err == nil {
		token, err := jwt.GenerateResetToken(user.ID)
		if err == nil && email.GlobalEmailService != nil {
			resetLink := os.Getenv("FRONTEND_URL") + "/reset-password?token=" + token
			if err := email.GlobalEmailService.SendPasswordResetEmail(user.Email, resetLink); err != nil {
				log.Printf("Could not send password reset email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "If that email exists, a reset link has been sent",
	})
}

func ResetPassword(c *fiber.Ctx) error {
	input := new(ResetPasswordInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	userID, err := jwt.ValidateResetToken(input.Token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired reset token",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	if err := database.GetDB().Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", string(hashedPassword)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update password",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// GetMe returns the authenticated user's account info.
func GetMe(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":            user.ID,
			"email":         user.Email,
			"username":      user.Username,
			"display_name":  user.DisplayName,
			"referral_code": user.ReferralCode,
			"created_at":    user.CreatedAt,
		},
	})
}
