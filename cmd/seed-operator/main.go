// Seed script to create or reset an operator account
// cmd/seed-operator/main.go
package main

import (
	"flag"
	"log"
	"time"

	"submission-portal-api/config"
	"submission-portal-api/controllers"
	"submission-portal-api/models"

	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "", "operator username")
	password := flag.String("password", "", "operator password (stored bcrypt-hashed)")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("Usage: seed-operator -username <name> -password <secret>")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	hashedPassword, err := controllers.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	var operator models.Operator
	err = config.DB.Where("username = ? AND delete_at IS NULL", *username).First(&operator).Error
	if err == nil {
		now := time.Now()
		operator.Password = hashedPassword
		operator.UpdateAt = &now
		if err := config.DB.Save(&operator).Error; err != nil {
			log.Fatal("Failed to update operator:", err)
		}
		log.Printf("Password reset for operator %s\n", *username)
		return
	}

	operator = models.Operator{
		Username: *username,
		Password: hashedPassword,
		CreateAt: time.Now(),
	}
	if err := config.DB.Create(&operator).Error; err != nil {
		log.Fatal("Failed to create operator:", err)
	}
	log.Printf("Operator %s created\n", *username)
}
