package main

import (
	"fmt"
	"log"
	"os"

	"github.com/outdoortrails/trails-hub-backend/config"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
	"github.com/outdoortrails/trails-hub-backend/internal/db"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	"github.com/outdoortrails/trails-hub-backend/pkg/gearsheet"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> <owner_id>")
	}

	filePath := os.Args[1]
	ownerID := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      "console",
		EnableColor: true,
	})

	conn, err := db.Open(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(conn)

	if err := db.Migrate(conn); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := gearsheet.Read(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Gear rows to import for %s: %d\n", ownerID, len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	gearService := service.NewGearService(
		conn,
		repository.NewGearRepository(conn),
		repository.NewCategoryRepository(conn),
		validation.New(),
		nil,
	)

	result, err := gearService.ImportGear(ownerID, rows)
	if err != nil {
		log.Fatal("Import failed, nothing was written:", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Gear created: %d\n", result.GearCreated)
	fmt.Printf("Categories created: %d\n", len(result.CategoriesCreated))
	for _, name := range result.CategoriesCreated {
		fmt.Printf("  - %s\n", name)
	}
}
