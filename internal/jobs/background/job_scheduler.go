package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"mealmart/internal/services"
)

const (
	staleDraftMaxAge   = 7 * 24 * time.Hour
	cardExpiryHorizon  = 60 * 24 * time.Hour
	staleDraftInterval = 1 * time.Hour
	cardReportInterval = 24 * time.Hour
)

// JobScheduler manages recurring maintenance jobs.
type JobScheduler struct {
	scheduler            gocron.Scheduler
	orderService         services.OrderServiceInterface
	paymentMethodService services.PaymentMethodServiceInterface
	jobs                 map[string]gocron.Job
	mu                   sync.RWMutex
}

func NewJobScheduler(orderService services.OrderServiceInterface, paymentMethodService services.PaymentMethodServiceInterface) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:            scheduler,
		orderService:         orderService,
		paymentMethodService: paymentMethodService,
		jobs:                 make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	staleJob, err := js.scheduler.NewJob(
		gocron.DurationJob(staleDraftInterval),
		gocron.NewTask(js.sweepStaleDrafts),
		gocron.WithName("stale-draft-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stale draft job: %v", err)
	} else {
		js.jobs["stale-draft-sweep"] = staleJob
	}

	expiryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(cardReportInterval),
		gocron.NewTask(js.reportExpiringCards),
		gocron.WithName("expiring-cards-report"),
	)
	if err != nil {
		log.Printf("Failed to create expiring cards job: %v", err)
	} else {
		js.jobs["expiring-cards-report"] = expiryJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepStaleDrafts cancels draft orders that have not been touched for a week.
func (js *JobScheduler) sweepStaleDrafts() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cancelled, err := js.orderService.CancelStaleDrafts(ctx, staleDraftMaxAge)
	if err != nil {
		log.Printf("Stale draft sweep failed: %v", err)
		return
	}
	if cancelled > 0 {
		log.Printf("Stale draft sweep cancelled %d orders", cancelled)
	}
}

// reportExpiringCards logs payment methods that expire within the horizon so
// operators can chase replacements before checkout starts failing.
func (js *JobScheduler) reportExpiringCards() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	expiring, err := js.paymentMethodService.ExpiringSoon(ctx, cardExpiryHorizon)
	if err != nil {
		log.Printf("Expiring cards report failed: %v", err)
		return
	}
	for _, pm := range expiring {
		log.Printf("Payment method %s (%s ****%s) expires %02d/%d", pm.ID, pm.Provider, pm.Last4Digits, pm.ExpiryMonth, pm.ExpiryYear)
	}
}
