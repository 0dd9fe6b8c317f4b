package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// HTTP server
	Port string `yaml:"PORT"`

	// JWT key
	JWTSecret string `yaml:"JWT_SECRET"`

	// OCR provider configuration
	OCRAPIURL      string `yaml:"OCR_API_URL"`
	OCRAPIKey      string `yaml:"OCR_API_KEY"`
	OCRTimeoutSecs string `yaml:"OCR_TIMEOUT_SECONDS"`

	// Upload configuration
	UploadDir         string `yaml:"UPLOAD_DIR"`
	MaxFileSize       string `yaml:"MAX_FILE_SIZE"`
	AllowedFileTypes  string `yaml:"ALLOWED_FILE_TYPES"`
	ReceiptMaxAgeDays string `yaml:"RECEIPT_MAX_AGE_DAYS"`
}

var config Config

func LoadConfig() {
	// .env values feed the os.Getenv fallbacks below
	_ = godotenv.Load()

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

func GetConfig(key string) string {
	value := ""
	switch key {
	case "DB_USER":
		value = config.DBUser
	case "DB_NAME":
		value = config.DBName
	case "DB_PASSWORD":
		value = config.DBPassword
	case "DB_PORT":
		value = config.DBPort
	case "DB_HOST":
		value = config.DBHost
	case "PORT":
		value = config.Port
	case "JWT_SECRET":
		value = config.JWTSecret
	case "OCR_API_URL":
		value = config.OCRAPIURL
	case "OCR_API_KEY":
		value = config.OCRAPIKey
	case "OCR_TIMEOUT_SECONDS":
		value = config.OCRTimeoutSecs
	case "UPLOAD_DIR":
		value = config.UploadDir
	case "MAX_FILE_SIZE":
		value = config.MaxFileSize
	case "ALLOWED_FILE_TYPES":
		value = config.AllowedFileTypes
	case "RECEIPT_MAX_AGE_DAYS":
		value = config.ReceiptMaxAgeDays
	}

	if value == "" {
		value = os.Getenv(key)
	}
	return value
}
