package seeds

import (
	"gorm.io/gorm"

	events "eventhub_backend/internals/seeds/events"
)

// RunAllSeeds applies every seed source that is configured. An empty eventFile is a no-op.
func RunAllSeeds(db *gorm.DB, eventFile string) error {
	if eventFile == "" {
		return nil
	}
	_, err := events.SeedEventsFromJSON(db, eventFile)
	return err
}
