// Command envcheck validates the runtime environment before deploy. It exits
// non-zero when a required variable is missing or malformed so CI can fail
// the release instead of the server failing at 3am.
package main

import (
	"fmt"
	"os"
	"strings"

	"ptaconnect/config"
)

type problem struct {
	Key     string
	Message string
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	var problems []problem
	fail := func(key, message string) {
		problems = append(problems, problem{Key: key, Message: message})
	}

	// Required values.
	if cfg.DatabaseURL == "" {
		fail("DATABASE_URL", "missing")
	}
	if cfg.JWTSecret == "" {
		fail("JWT_SECRET", "missing")
	} else if len(cfg.JWTSecret) < 32 {
		fail("JWT_SECRET", "must be at least 32 characters")
	}

	// Stripe keys carry recognizable prefixes; a wrong prefix usually means a
	// publishable key or a webhook secret pasted into the wrong slot.
	if cfg.StripeSecretKey == "" {
		fail("STRIPE_SECRET_KEY", "missing")
	} else if !strings.HasPrefix(cfg.StripeSecretKey, "sk_") && !strings.HasPrefix(cfg.StripeSecretKey, "rk_") {
		fail("STRIPE_SECRET_KEY", "must start with sk_ or rk_")
	}
	if cfg.StripeWebhookSecret == "" {
		fail("STRIPE_WEBHOOK_SECRET", "missing")
	} else if !strings.HasPrefix(cfg.StripeWebhookSecret, "whsec_") {
		fail("STRIPE_WEBHOOK_SECRET", "must start with whsec_")
	}

	// Encryption keys: present, long enough, and pairwise distinct. Reusing
	// one key across data classes defeats the point of classed keys.
	keys := map[string]string{
		"PII_ENCRYPTION_KEY":       cfg.PIIEncryptionKey,
		"FINANCIAL_ENCRYPTION_KEY": cfg.FinancialEncryptionKey,
		"HEALTH_ENCRYPTION_KEY":    cfg.HealthEncryptionKey,
	}
	seen := map[string]string{}
	for name, value := range keys {
		if value == "" {
			fail(name, "missing")
			continue
		}
		if len(value) < 32 {
			fail(name, "must be at least 32 characters")
		}
		if other, dup := seen[value]; dup {
			fail(name, "must differ from "+other)
		}
		seen[value] = name
	}

	if cfg.CronSecret == "" {
		fail("CRON_SECRET", "missing")
	}

	// Production must not run on test credentials.
	if config.IsProduction() {
		if strings.HasPrefix(cfg.StripeSecretKey, "sk_test_") {
			fail("STRIPE_SECRET_KEY", "test-mode key in production")
		}
		for name, value := range keys {
			lowered := strings.ToLower(value)
			if strings.Contains(lowered, "test") || strings.Contains(lowered, "changeme") {
				fail(name, "placeholder value in production")
			}
		}
	}

	if len(problems) == 0 {
		fmt.Println("environment OK")
		return
	}

	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "%s: %s\n", p.Key, p.Message)
	}
	os.Exit(1)
}
