package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issues a short-lived JWT for exercising the phone verification API locally:
//
//	curl -H "Authorization: Bearer $(go run ./cmd/tokengen -account <uuid>)" ...
func main() {
	secret := flag.String("secret", "very-secure-jwt-secret", "Secret key for signing the token")
	issuer := flag.String("issuer", "phone-verify", "Issuer of the token")
	accountID := flag.String("account", "", "Account ID claim (uuid)")
	expiry := flag.Duration("expiry", 30*time.Minute, "Token expiry duration (e.g., 30m, 1h)")
	flag.Parse()

	if *accountID == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required")
		os.Exit(1)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":        *issuer,
		"sub":        *accountID,
		"account_id": *accountID,
		"iat":        now.Unix(),
		"exp":        now.Add(*expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenStr)
}
