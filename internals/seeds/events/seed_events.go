package events

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dto "eventhub_backend/internals/features/events/events/dto"
	model "eventhub_backend/internals/features/events/events/model"
	helper "eventhub_backend/internals/helpers"
)

// SeedEventsFromJSON inserts the events in filePath. Entries whose title already
// exists on the same date are skipped. It returns how many rows were inserted.
func SeedEventsFromJSON(db *gorm.DB, filePath string) (int, error) {
	log.Info().Str("file", filePath).Msg("reading event seeds")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var seeds []dto.CreateEventRequest
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	v := helper.NewValidator()
	inserted := 0
	for i := range seeds {
		s := &seeds[i]
		s.Normalize()
		if err := s.Validate(v); err != nil {
			log.Warn().Err(err).Int("index", i).Str("title", s.EventTitle).Msg("skipping invalid seed")
			continue
		}

		d, _ := time.Parse(dto.DateLayout, s.EventDate)
		var n int64
		if err := db.Model(&model.EventModel{}).
			Where("event_title = ? AND event_date = ?", s.EventTitle, datatypes.Date(d)).
			Count(&n).Error; err != nil {
			return inserted, fmt.Errorf("check existing seed: %w", err)
		}
		if n > 0 {
			log.Debug().Str("title", s.EventTitle).Msg("seed already present")
			continue
		}

		if err := db.Create(s.ToModel()).Error; err != nil {
			return inserted, fmt.Errorf("insert seed %q: %w", s.EventTitle, err)
		}
		inserted++
	}
	log.Info().Int("inserted", inserted).Int("total", len(seeds)).Msg("event seeds applied")
	return inserted, nil
}
