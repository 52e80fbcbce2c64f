package services

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// translateDBError maps storage-layer failures onto the HTTP error taxonomy:
// duplicate keys become 409 Conflict, missing rows 404 Not Found, anything
// else a 500 with the fallback message. fiber.Error values pass through so
// services can raise taxonomy errors from inside transactions.
func translateDBError(err error, fallback string) error {
	if err == nil {
		return nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return fiber.NewError(fiber.StatusConflict, "Duplicate record: "+fallback)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, fallback+" not found")
	}

	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}
