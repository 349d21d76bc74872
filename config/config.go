package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS        = ""   // e.g. "folio.example.com,www.folio.example.com"
	MYSQL_DSN          = ""   // MySQL will be used if this is set
	SQLITE_FILE        = ""   // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS       = "0.0.0.0:8080"
	TMP_DIR            = "/tmp" // Used as S3 download scratch space and for ffmpeg conversion
	DEFAULT_BUCKET_DIR = ""     // Used for creating an initial disk bucket on first start
	PUBLIC_BASE_URL    = "http://localhost:8080"
	DEBUG_MODE         = true
	// Transactional email API (invitations + operator alerts).
	// Leave MAIL_API_URL empty to disable outgoing email.
	MAIL_API_URL = ""
	MAIL_API_KEY = ""
	MAIL_FROM    = "no-reply@artfolio.local"
	ALERT_EMAIL  = "" // Operator address for storage failure alerts
	// External command used as a fallback for HEIC/HEIF conversion
	FFMPEG_BIN = "ffmpeg"
	// Number of days the analytics summary looks back
	ANALYTICS_DAYS = 30
	SESSION_KEY    = "change me via the SESSION_KEY env variable"
	// First-boot admin account, created only when the users table is empty
	ADMIN_EMAIL    = ""
	ADMIN_PASSWORD = ""
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvString("PUBLIC_BASE_URL", &PUBLIC_BASE_URL)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("MAIL_API_URL", &MAIL_API_URL)
	readEnvString("MAIL_API_KEY", &MAIL_API_KEY)
	readEnvString("MAIL_FROM", &MAIL_FROM)
	readEnvString("ALERT_EMAIL", &ALERT_EMAIL)
	readEnvString("FFMPEG_BIN", &FFMPEG_BIN)
	readEnvInt("ANALYTICS_DAYS", &ANALYTICS_DAYS)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("ADMIN_EMAIL", &ADMIN_EMAIL)
	readEnvString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
