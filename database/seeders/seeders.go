package seeders

import (
	"log"

	"classtrack_go/database"
	"classtrack_go/models"
	"classtrack_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedSchools()
	SeedUsers()
	SeedTeachers()
	SeedSubjects()
	SeedRooms()
	SeedClasses()

	log.Println("Database seeding completed successfully!")
}

// SeedSchools seeds the schools table
func SeedSchools() {
	var count int64
	database.DB.Model(&models.School{}).Count(&count)
	if count > 0 {
		log.Println("Schools already seeded, skipping...")
		return
	}

	schools := []models.School{
		{
			BaseModel: models.BaseModel{ID: 1},
			Name:      "Riverside Secondary School",
			Code:      "RSS",
			Address:   "12 Riverside Road",
			Phone:     "02-555-0100",
			Active:    true,
		},
	}

	for _, school := range schools {
		if err := database.DB.Create(&school).Error; err != nil {
			log.Printf("Error seeding school %s: %v", school.Code, err)
		}
	}

	log.Println("Schools seeded successfully")
}

// SeedUsers seeds the users table with an initial owner and admin
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	ownerPassword, err := utils.HashPassword("owner123")
	if err != nil {
		log.Printf("Error hashing owner password: %v", err)
		return
	}
	adminPassword, err := utils.HashPassword("admin123")
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	users := []models.User{
		{
			BaseModel: models.BaseModel{ID: 1},
			Username:  "owner",
			Password:  ownerPassword,
			Email:     "owner@classtrack.local",
			Role:      "owner",
			SchoolID:  1,
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 2},
			Username:  "admin",
			Password:  adminPassword,
			Email:     "admin@classtrack.local",
			Role:      "admin",
			SchoolID:  1,
			Status:    "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedTeachers seeds a few teacher directory entries
func SeedTeachers() {
	var count int64
	database.DB.Model(&models.Teacher{}).Count(&count)
	if count > 0 {
		log.Println("Teachers already seeded, skipping...")
		return
	}

	teachers := []models.Teacher{
		{SchoolID: 1, FirstName: "Alice", LastName: "Nguyen", Nickname: "Alice", Department: "Mathematics", Active: true},
		{SchoolID: 1, FirstName: "Ben", LastName: "Carter", Nickname: "Ben", Department: "Science", Active: true},
		{SchoolID: 1, FirstName: "Chloe", LastName: "Sato", Nickname: "Chloe", Department: "Languages", Active: true},
	}

	for _, teacher := range teachers {
		if err := database.DB.Create(&teacher).Error; err != nil {
			log.Printf("Error seeding teacher %s: %v", teacher.FirstName, err)
		}
	}

	log.Println("Teachers seeded successfully")
}

// SeedSubjects seeds core subjects
func SeedSubjects() {
	var count int64
	database.DB.Model(&models.Subject{}).Count(&count)
	if count > 0 {
		log.Println("Subjects already seeded, skipping...")
		return
	}

	subjects := []models.Subject{
		{SchoolID: 1, Name: "Mathematics", Code: "MATH", Active: true},
		{SchoolID: 1, Name: "Science", Code: "SCI", Active: true},
		{SchoolID: 1, Name: "English", Code: "ENG", Active: true},
		{SchoolID: 1, Name: "History", Code: "HIST", Active: true},
	}

	for _, subject := range subjects {
		if err := database.DB.Create(&subject).Error; err != nil {
			log.Printf("Error seeding subject %s: %v", subject.Code, err)
		}
	}

	log.Println("Subjects seeded successfully")
}

// SeedRooms seeds classrooms
func SeedRooms() {
	var count int64
	database.DB.Model(&models.Room{}).Count(&count)
	if count > 0 {
		log.Println("Rooms already seeded, skipping...")
		return
	}

	rooms := []models.Room{
		{SchoolID: 1, Name: "Room 101", Capacity: 40, Status: "available"},
		{SchoolID: 1, Name: "Room 102", Capacity: 40, Status: "available"},
		{SchoolID: 1, Name: "Science Lab", Capacity: 30, Status: "available"},
	}

	for _, room := range rooms {
		if err := database.DB.Create(&room).Error; err != nil {
			log.Printf("Error seeding room %s: %v", room.Name, err)
		}
	}

	log.Println("Rooms seeded successfully")
}

// SeedClasses seeds a starter set of class sections
func SeedClasses() {
	var count int64
	database.DB.Model(&models.Class{}).Count(&count)
	if count > 0 {
		log.Println("Classes already seeded, skipping...")
		return
	}

	classes := []models.Class{
		{SchoolID: 1, Name: "Grade 7", GradeLevel: "7", Section: "A", AcademicYear: "2026", Capacity: 40, Status: "active"},
		{SchoolID: 1, Name: "Grade 7", GradeLevel: "7", Section: "B", AcademicYear: "2026", Capacity: 40, Status: "active"},
		{SchoolID: 1, Name: "Grade 8", GradeLevel: "8", Section: "A", AcademicYear: "2026", Capacity: 40, Status: "active"},
	}

	for _, class := range classes {
		if err := database.DB.Create(&class).Error; err != nil {
			log.Printf("Error seeding class %s %s: %v", class.Name, class.Section, err)
		}
	}

	log.Println("Classes seeded successfully")
}
