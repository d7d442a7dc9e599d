package utils

import (
  "context"
  "fmt"
  "strings"
  "golang.org/x/crypto/bcrypt"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

// ParseInputString trims surrounding whitespace and collapses inner runs of
// spaces. Applied to every free-text credential field before validation.
func ParseInputString(s string) string {
  return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

func NormalizeUserFields(ctx context.Context, user *types.User) {
  user.Email = strings.ToLower(ParseInputString(user.Email))
  user.Password = strings.TrimSpace(user.Password)
  user.Name = ParseInputString(user.Name)
}

func ValidateRegistration(ctx context.Context, emailExists bool, user *types.User) error {
  if user == nil {
    return fmt.Errorf("No user given, cannot proceed with registration")
  }
  if user.Email == "" {
    return fmt.Errorf("An email is required to register")
  }
  if emailExists {
    return fmt.Errorf("Email is already in use")
  }
  if user.Password == "" {
    return fmt.Errorf("A password is required to register")
  }
  if user.Name == "" {
    return fmt.Errorf("A name is required to register")
  }
  return nil
}

func ValidateLogin(ctx context.Context, email, password string) error {
  if email == "" {
    return fmt.Errorf("Email is required to login")
  }
  if password == "" {
    return fmt.Errorf("Password is required to login")
  }
  return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return fmt.Errorf("Failed to hash password")
  }
  user.Password = string(hashedPassword)
  return nil
}
