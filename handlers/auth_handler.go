package handlers

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/tandon-kartikeya/cleanroom-bphc/configs"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// Student mailboxes are an 'f' followed by the admission year and roll
// digits; everything else on the campus domain is treated as faculty.
var studentEmailPattern = regexp.MustCompile(`^f\d+@`)

type SessionRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateSession exchanges a campus sign-in result for an API token. The
// upstream identity provider only yields an email and a display name; the
// role is derived from the email pattern. Admin never comes through here.
func CreateSession(c *fiber.Ctx) error {
	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	email := strings.ToLower(req.Email)
	domain := config.Config("CAMPUS_EMAIL_DOMAIN")
	if domain == "" {
		domain = "hyderabad.bits-pilani.ac.in"
	}
	if !strings.HasSuffix(email, "@"+domain) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You must use your campus email to sign in",
		})
	}

	role := models.RoleFaculty
	if studentEmailPattern.MatchString(email) {
		role = models.RoleStudent
	}

	user := models.User{
		FullName: req.DisplayName,
		Email:    email,
		Role:     role,
	}
	if role == models.RoleFaculty {
		user.FacultyID = email[:strings.Index(email, "@")]
	}
	if err := database.DB.Where("email = ?", email).FirstOrCreate(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record user"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is disabled"})
	}

	token, err := issueToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": token, "role": user.Role, "facultyId": user.FacultyID})
}

// AdminLogin checks the static administrator credential seeded at startup.
// Admin identity is deliberately separate from the campus sign-in flow.
func AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	result := database.DB.Where("email = ? AND role = ?", req.Email, models.RoleAdmin).First(&user)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := issueToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": token})
}

func issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"email":      user.Email,
		"name":       user.FullName,
		"role":       user.Role,
		"faculty_id": user.FacultyID,
		"exp":        time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}
