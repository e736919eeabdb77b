package warranty

import (
	"fmt"
	"log"
	"time"

	"github.com/asseto/trackgo/internal/database"
	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/rma"
)

// Checker scans for devices whose warranty expires within the alert
// window and announces them through the event transport once per device.
type Checker struct {
	db      *database.DB
	emitter rma.Emitter
	window  time.Duration
	stop    chan struct{}
}

// NewChecker creates a warranty expiry checker with a 30 day window
func NewChecker(db *database.DB, emitter rma.Emitter) *Checker {
	return &Checker{
		db:      db,
		emitter: emitter,
		window:  30 * 24 * time.Hour,
		stop:    make(chan struct{}),
	}
}

// Start begins the daily scan loop. The first scan runs shortly after
// startup so restarts do not miss a day.
func (c *Checker) Start() {
	go func() {
		log.Println("⏰ Warranty checker started")

		time.Sleep(10 * time.Second)
		c.runScan()

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.runScan()
			case <-c.stop:
				log.Println("🛑 Warranty checker stopped")
				return
			}
		}
	}()
}

// Stop halts the scan loop
func (c *Checker) Stop() {
	close(c.stop)
}

// runScan finds devices expiring inside the window that have not been
// alerted yet. The notifications table is the dedupe ledger: one expiry
// notification per device.
func (c *Checker) runScan() {
	log.Println("🔍 Warranty: scanning for expiring devices...")

	now := time.Now().UTC()
	cutoff := now.Add(c.window)

	var devices []models.Device
	err := c.db.
		Where("warranty_end_date IS NOT NULL").
		Where("warranty_end_date > ? AND warranty_end_date <= ?", now, cutoff).
		Find(&devices).Error
	if err != nil {
		log.Printf("❌ Warranty scan failed: %v", err)
		return
	}

	alerted := 0
	for _, d := range devices {
		var existing int64
		err := c.db.Model(&models.Notification{}).
			Where("device_id = ? AND type = ?", d.ID, models.NotificationExpiry).
			Count(&existing).Error
		if err != nil {
			log.Printf("❌ Warranty dedupe check failed for %s: %v", d.Serial, err)
			continue
		}
		if existing > 0 {
			continue
		}

		days := int(d.WarrantyEndDate.Sub(now).Hours() / 24)
		c.emitter.Emit(rma.Event{
			Channel:   rma.ChannelExpiry,
			Type:      rma.EventExpiryAlert,
			Title:     "Warranty expiring",
			Message:   fmt.Sprintf("Warranty for %s (%s) expires in %d days", d.Type, d.Serial, days),
			Timestamp: now,
			Context: map[string]interface{}{
				"deviceId":        d.ID,
				"serial":          d.Serial,
				"warrantyEndDate": d.WarrantyEndDate.Format(time.RFC3339),
			},
		})
		alerted++
	}

	if alerted > 0 {
		log.Printf("⚠️ Warranty: %d expiry alerts sent", alerted)
	} else {
		log.Println("✅ Warranty: no new expiring devices")
	}
}
