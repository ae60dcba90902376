package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"experiencehub/models"
	"experiencehub/services/booking"
)

const (
	TypeInventoryReconcile = "inventory:reconcile"
	TypeInventorySweep     = "inventory:sweep"
)

type ReconcilePayload struct {
	ExperienceID string `json:"experienceId"`
	Reason       string `json:"reason"`
}

func NewReconcileTask(payload ReconcilePayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeInventoryReconcile, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		// Collapse bursts of reports for the same experience.
		asynq.Unique(time.Minute),
	}
	return task, opts, nil
}

func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeInventorySweep, nil)
}

// AsynqDriftReporter queues a reconcile task for every drift report.
type AsynqDriftReporter struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func (r *AsynqDriftReporter) ReportDrift(ctx context.Context, experienceID string, reason string) error {
	task, opts, err := NewReconcileTask(ReconcilePayload{ExperienceID: experienceID, Reason: reason})
	if err != nil {
		return err
	}
	info, err := r.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue reconcile task: %w", err)
	}
	if r.Logger != nil {
		r.Logger.Info("Reconcile task queued",
			zap.String("taskId", info.ID),
			zap.String("experienceId", experienceID),
			zap.String("reason", reason))
	}
	return nil
}

// ExperienceLister is the part of the catalog the sweep needs.
type ExperienceLister interface {
	List(ctx context.Context) ([]models.Experience, error)
}

type ReconcileHandler struct {
	Engine      booking.ReservationEngine
	Experiences ExperienceLister
	Logger      *zap.Logger
}

func (h *ReconcileHandler) HandleReconcile(ctx context.Context, task *asynq.Task) error {
	var p ReconcilePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.Logger.Error("Invalid reconcile payload", zap.Error(err))
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	_, err := h.reconcile(ctx, p.ExperienceID)
	if errors.Is(err, booking.ErrExperienceNotFound) {
		h.Logger.Info("Experience gone, nothing to reconcile", zap.String("experienceId", p.ExperienceID))
		return nil
	}
	return err
}

func (h *ReconcileHandler) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	experiences, err := h.Experiences.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list experiences: %w", err)
	}

	var drifted int
	for _, e := range experiences {
		n, err := h.reconcile(ctx, e.ID)
		if err != nil && !errors.Is(err, booking.ErrExperienceNotFound) {
			return err
		}
		drifted += n
	}

	h.Logger.Info("Inventory sweep finished",
		zap.Int("experiences", len(experiences)),
		zap.Int("driftedSlots", drifted))
	return nil
}

// reconcile returns the number of inconsistent slots.
func (h *ReconcileHandler) reconcile(ctx context.Context, experienceID string) (int, error) {
	reports, err := h.Engine.Reconcile(ctx, experienceID)
	if err != nil {
		return 0, err
	}
	var drifted int
	for _, r := range reports {
		if !r.Consistent() {
			drifted++
		}
	}
	return drifted, nil
}

// Register wires the handlers onto mux.
func (h *ReconcileHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeInventoryReconcile, h.HandleReconcile)
	mux.HandleFunc(TypeInventorySweep, h.HandleSweep)
}
