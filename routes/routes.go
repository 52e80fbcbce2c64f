package routes

import (
	"classtrack_go/controllers"
	"classtrack_go/middleware"
	"classtrack_go/services/websocket"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	classController := &controllers.ClassController{}
	studentController := &controllers.StudentController{}
	teacherController := &controllers.TeacherController{}
	subjectController := &controllers.SubjectController{}
	roomController := &controllers.RoomController{}
	timeslotController := controllers.NewTimeslotController()
	scheduleController := controllers.NewScheduleController()
	notificationController := controllers.NewNotificationController()
	logController := controllers.NewLogController()
	wsController := controllers.NewWebSocketController(wsHub)

	api := app.Group("/api/v1")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)
	auth.Put("/password", middleware.JWTMiddleware(), authController.ChangePassword)
	auth.Post("/logout", middleware.JWTMiddleware(), authController.Logout)

	// WebSocket endpoint, token is validated inside the handler
	app.Get("/ws", wsController.WebSocketHandler())

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/ws/stats", middleware.RequireOwnerOrAdmin(), wsController.GetWebSocketStats)

	// Person search across users, teachers and students
	protected.Get("/search/people", middleware.RequireTeacherOrAbove(), userController.SearchPeople)

	// User management
	users := protected.Group("/users")
	users.Get("/", middleware.RequireTeacherOrAbove(), userController.GetUsers)
	users.Get("/:id", middleware.RequireTeacherOrAbove(), userController.GetUser)
	users.Post("/", middleware.RequireOwnerOrAdmin(), authController.Register)
	users.Put("/:id", middleware.RequireOwnerOrAdmin(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireOwnerOrAdmin(), userController.DeleteUser)

	// Class management
	classes := protected.Group("/classes")
	classes.Get("/", middleware.RequireTeacherOrAbove(), classController.GetClasses)
	classes.Get("/:id", middleware.RequireTeacherOrAbove(), classController.GetClass)
	classes.Get("/:id/roster", middleware.RequireTeacherOrAbove(), classController.GetClassRoster)
	classes.Get("/:class_id/timeslots", middleware.RequireTeacherOrAbove(), timeslotController.GetClassTimeslots)
	classes.Post("/", middleware.RequireOwnerOrAdmin(), classController.CreateClass)
	classes.Put("/:id", middleware.RequireOwnerOrAdmin(), classController.UpdateClass)
	classes.Delete("/:id", middleware.RequireOwnerOrAdmin(), classController.DeleteClass)

	// Student management
	students := protected.Group("/students")
	students.Get("/", middleware.RequireTeacherOrAbove(), studentController.GetStudents)
	students.Get("/:id", middleware.RequireTeacherOrAbove(), studentController.GetStudent)
	students.Post("/", middleware.RequireOwnerOrAdmin(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireOwnerOrAdmin(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireOwnerOrAdmin(), studentController.DeleteStudent)

	// Teacher management
	teachers := protected.Group("/teachers")
	teachers.Get("/", middleware.RequireTeacherOrAbove(), teacherController.GetTeachers)
	teachers.Get("/:id", middleware.RequireTeacherOrAbove(), teacherController.GetTeacher)
	teachers.Get("/:id/slots", middleware.RequireTeacherOrAbove(), teacherController.GetTeacherSlots)
	teachers.Post("/", middleware.RequireOwnerOrAdmin(), teacherController.CreateTeacher)
	teachers.Put("/:id", middleware.RequireOwnerOrAdmin(), teacherController.UpdateTeacher)
	teachers.Delete("/:id", middleware.RequireOwnerOrAdmin(), teacherController.DeleteTeacher)

	// Subject management
	subjects := protected.Group("/subjects")
	subjects.Get("/", middleware.RequireTeacherOrAbove(), subjectController.GetSubjects)
	subjects.Get("/:id", middleware.RequireTeacherOrAbove(), subjectController.GetSubject)
	subjects.Post("/", middleware.RequireOwnerOrAdmin(), subjectController.CreateSubject)
	subjects.Put("/:id", middleware.RequireOwnerOrAdmin(), subjectController.UpdateSubject)
	subjects.Delete("/:id", middleware.RequireOwnerOrAdmin(), subjectController.DeleteSubject)

	// Room management
	rooms := protected.Group("/rooms")
	rooms.Get("/", middleware.RequireTeacherOrAbove(), roomController.GetRooms)
	rooms.Get("/:id", middleware.RequireTeacherOrAbove(), roomController.GetRoom)
	rooms.Post("/", middleware.RequireOwnerOrAdmin(), roomController.CreateRoom)
	rooms.Put("/:id", middleware.RequireOwnerOrAdmin(), roomController.UpdateRoom)
	rooms.Delete("/:id", middleware.RequireOwnerOrAdmin(), roomController.DeleteRoom)

	// Timeslot management
	timeslots := protected.Group("/timeslots")
	timeslots.Get("/:id", middleware.RequireTeacherOrAbove(), timeslotController.GetTimeslot)
	timeslots.Post("/", middleware.RequireOwnerOrAdmin(), timeslotController.CreateTimeslot)
	timeslots.Put("/:id", middleware.RequireOwnerOrAdmin(), timeslotController.UpdateTimeslot)
	timeslots.Delete("/:id", middleware.RequireOwnerOrAdmin(), timeslotController.DeleteTimeslot)

	protected.Get("/class-timeslots/:class_id", middleware.RequireTeacherOrAbove(), timeslotController.GetClassTimeslots)

	// Schedule management
	schedules := protected.Group("/schedules")
	schedules.Get("/", middleware.RequireTeacherOrAbove(), scheduleController.GetSchedules)
	schedules.Get("/check-teacher-conflict", middleware.RequireTeacherOrAbove(), scheduleController.CheckTeacherConflict)
	schedules.Get("/:id", middleware.RequireTeacherOrAbove(), scheduleController.GetSchedule)
	schedules.Get("/:id/export", middleware.RequireTeacherOrAbove(), scheduleController.ExportSchedule)
	schedules.Post("/", middleware.RequireOwnerOrAdmin(), scheduleController.CreateSchedule)
	schedules.Put("/:id", middleware.RequireOwnerOrAdmin(), scheduleController.UpdateSchedule)
	schedules.Delete("/:id", middleware.RequireOwnerOrAdmin(), scheduleController.DeleteSchedule)
	schedules.Patch("/:id/activate", middleware.RequireOwnerOrAdmin(), scheduleController.ActivateSchedule)

	// Schedule slot sub-resource
	schedules.Get("/:id/slots", middleware.RequireTeacherOrAbove(), scheduleController.GetScheduleSlots)
	schedules.Post("/:id/slots", middleware.RequireOwnerOrAdmin(), scheduleController.CreateScheduleSlot)
	schedules.Put("/slots/:slot_id", middleware.RequireOwnerOrAdmin(), scheduleController.UpdateScheduleSlot)
	schedules.Delete("/slots/:slot_id", middleware.RequireOwnerOrAdmin(), scheduleController.DeleteScheduleSlot)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Post("/", middleware.RequireOwnerOrAdmin(), notificationController.CreateNotification)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Patch("/read-all", notificationController.MarkAllAsRead)
	notifications.Delete("/:id", notificationController.DeleteNotification)

	// Activity logs (owner/admin only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Post("/flush-cache", logController.FlushCachedLogs)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)
}
