package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Event{}, "Attendees", &EventAttendee{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&User{},
		&Event{},
		&EventAttendee{},
		&Payment{},
		&Feedback{},
	)
}
