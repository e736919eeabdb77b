package vendorbridge

import (
	"fmt"
	"log"
	"time"

	"github.com/asseto/trackgo/internal/database"
	"github.com/asseto/trackgo/internal/models"
)

// repairOrderModel is the ERP model receiving pushed RMAs
const repairOrderModel = "repair.order"

// Service pushes approved RMAs to the vendor's ERP in the background.
// Pushes are best effort: a failed push is retried on the next cycle
// because the vendor reference stays empty until the create succeeds.
type Service struct {
	client *Client
	db     *database.DB
	cfg    Config
	stop   chan struct{}
}

// Config holds vendor ERP connection settings
type Config struct {
	URL          string
	Database     string
	Username     string
	Password     string
	PushInterval int // in minutes
}

// NewService creates a new vendor ERP push service
func NewService(db *database.DB, cfg Config) *Service {
	return &Service{
		client: NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password),
		db:     db,
		cfg:    cfg,
		stop:   make(chan struct{}),
	}
}

// Start begins the background push loop
func (s *Service) Start() {
	if s.cfg.URL == "" {
		log.Println("Vendor ERP bridge disabled: VENDOR_ERP_URL not configured")
		return
	}

	go func() {
		log.Println("📡 Vendor ERP bridge started")

		if _, err := s.client.Authenticate(); err != nil {
			log.Printf("❌ Vendor ERP authentication failed: %v", err)
			return
		}

		time.Sleep(5 * time.Second)
		s.pushPending()

		interval := time.Duration(s.cfg.PushInterval) * time.Minute
		if s.cfg.PushInterval <= 0 {
			interval = 15 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.pushPending()
			case <-s.stop:
				log.Println("🛑 Vendor ERP bridge stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *Service) Stop() {
	close(s.stop)
}

// pushPending finds approved RMAs that have a vendor assigned but no
// vendor reference yet, and creates matching repair orders in the ERP.
func (s *Service) pushPending() {
	var rmas []models.RMA
	err := s.db.
		Where("status = ?", models.RMAStatusApproved).
		Where("vendor_id IS NOT NULL").
		Where("vendor_rma_number = '' OR vendor_rma_number IS NULL").
		Limit(50).
		Find(&rmas).Error
	if err != nil {
		log.Printf("❌ Vendor ERP: query failed: %v", err)
		return
	}

	if len(rmas) == 0 {
		return
	}

	log.Printf("📤 Vendor ERP: pushing %d approved RMAs...", len(rmas))

	count := 0
	for _, r := range rmas {
		values := map[string]interface{}{
			"name":        r.RMANumber,
			"description": r.IssueDescription,
			"lot_id":      r.SerialNumber,
		}
		if r.EstimatedReturnDate != nil {
			values["schedule_date"] = r.EstimatedReturnDate.Format("2006-01-02")
		}

		id, err := s.client.CreateRecord(repairOrderModel, values)
		if err != nil {
			log.Printf("❌ Vendor ERP: push failed for %s: %v", r.RMANumber, err)
			continue
		}

		ref := fmt.Sprintf("ERP-%d", id)
		if err := s.db.Model(&models.RMA{}).
			Where("id = ?", r.ID).
			Update("vendor_rma_number", ref).Error; err != nil {
			log.Printf("❌ Vendor ERP: failed to store reference for %s: %v", r.RMANumber, err)
			continue
		}
		count++
	}

	log.Printf("✅ Vendor ERP: pushed %d RMAs", count)
}
