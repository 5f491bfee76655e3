package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// 用户名规则：小写字母/数字/下划线
var usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

func ValidUsername(name string) bool {
	return usernameRe.MatchString(name)
}
