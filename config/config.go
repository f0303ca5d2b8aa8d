package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/logging"
	"github.com/BaselBoulos/la-maison-privee/models"
)

// Config holds the project config values
type Config struct {
	URL              string
	DatabaseName     string
	BaseURL          string
	Port             string
	Env              string
	JWTSecret        string
	JWTTTL           time.Duration
	SendGridAPIKey   string
	EmailFrom        string
	EmailFromName    string
	CloudinaryURL    string
	CloudinaryFolder string
	SeedFile         string
	AllowedOrigins   []string
	DefaultClubID    int
	InviteCodePrefix string
	SchedulerEnabled bool
}

// New sets up all config related services
func New() *Config {
	env := getEnv("APP_ENV", "development")

	//setup zap logger and replace default logger
	logger, err := logging.New(env)
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:              getEnv("DB_URI", "mongodb://127.0.0.1:27017"),
		DatabaseName:     getEnv("DB_NAME", "la-maison-privee"),
		BaseURL:          os.Getenv("BASE_URL"),
		Port:             getEnv("PORT", "8080"),
		Env:              env,
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		JWTTTL:           time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:        getEnv("EMAIL_FROM", "no-reply@lamaisonprivee.club"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "La Maison Privée"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "la-maison-privee"),
		SeedFile:         getEnv("SEED_FILE", "seed.yaml"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
		DefaultClubID:    getEnvInt("DEFAULT_CLUB_ID", 1),
		InviteCodePrefix: strings.ToUpper(getEnv("INVITE_CODE_PREFIX", "MAISON")),
		SchedulerEnabled: getEnv("SCHEDULER_ENABLED", "true") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	resp := models.ErrorMessageResponse{Response: models.MessageError{Message: message}}
	if err != nil {
		resp.Response.Error = err.Error()
	}
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	} else {
		zap.S().Debugw(message, "status", httpStatusCode, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(resp)
	w.Write(b)
}
