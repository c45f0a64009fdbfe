package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/dto"
	"github.com/vkotelnikov/defect-tracking-api/internal/models"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/repository"
)

// StatisticsService builds the read-only aggregate views. Every method
// re-derives the Observer row filter instead of trusting the caller.
type StatisticsService struct {
	defectRepo  repository.DefectRepository
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(defectRepo repository.DefectRepository, userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *StatisticsService {
	return &StatisticsService{
		defectRepo:  defectRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

func isOpen(statusID uint64) bool {
	return statusID != constants.StatusClosed && statusID != constants.StatusCancelled
}

// Overview returns totals, distributions and the five most recent
// defects visible to the actor.
func (s *StatisticsService) Overview(actor Actor) (*dto.OverviewStats, error) {
	defects, err := s.defectRepo.ListScoped(actor.RoleID, actor.ID, nil,
		"Info", "Project", "Status", "Responsible")
	if err != nil {
		return nil, fmt.Errorf("failed to load defects: %w", err)
	}

	stats := &dto.OverviewStats{
		TotalDefects:      int64(len(defects)),
		DefectsByStatus:   make(map[uint64]int),
		DefectsByPriority: make(map[int16]int),
	}

	for _, d := range defects {
		stats.DefectsByStatus[d.StatusID]++
		stats.DefectsByPriority[d.Info.Priority]++
	}

	sort.Slice(defects, func(i, j int) bool {
		return defects[i].CreatedDate.After(defects[j].CreatedDate)
	})
	for i, d := range defects {
		if i == 5 {
			break
		}
		responsible := "Unassigned"
		if d.Responsible != nil {
			responsible = d.Responsible.DisplayName
		}
		stats.RecentDefects = append(stats.RecentDefects, dto.RecentDefect{
			DefectID:        d.ID,
			DefectName:      d.Info.DefectName,
			ProjectName:     d.Project.Name,
			StatusName:      d.Status.Name,
			ResponsibleName: responsible,
			CreatedDate:     d.CreatedDate,
			Priority:        d.Info.Priority,
		})
	}

	return stats, nil
}

// ByStatus returns the per-status distribution with percentages.
func (s *StatisticsService) ByStatus(actor Actor) ([]dto.StatusStats, error) {
	defects, err := s.defectRepo.ListScoped(actor.RoleID, actor.ID, nil, "Status")
	if err != nil {
		return nil, fmt.Errorf("failed to load defects: %w", err)
	}

	byStatus := make(map[uint64]*dto.StatusStats)
	for _, d := range defects {
		entry, ok := byStatus[d.StatusID]
		if !ok {
			entry = &dto.StatusStats{StatusID: d.StatusID, StatusName: d.Status.Name}
			byStatus[d.StatusID] = entry
		}
		entry.Count++
	}

	stats := make([]dto.StatusStats, 0, len(byStatus))
	for _, entry := range byStatus {
		if len(defects) > 0 {
			entry.Percentage = math.Round(float64(entry.Count)/float64(len(defects))*100*100) / 100
		}
		stats = append(stats, *entry)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].StatusID < stats[j].StatusID })

	return stats, nil
}

// ByProject returns the per-project distribution, busiest first.
func (s *StatisticsService) ByProject(actor Actor) ([]dto.ProjectStats, error) {
	defects, err := s.defectRepo.ListScoped(actor.RoleID, actor.ID, nil, "Info", "Project")
	if err != nil {
		return nil, fmt.Errorf("failed to load defects: %w", err)
	}

	byProject := make(map[uint64]*dto.ProjectStats)
	for _, d := range defects {
		entry, ok := byProject[d.ProjectID]
		if !ok {
			entry = &dto.ProjectStats{ProjectID: d.ProjectID, ProjectName: d.Project.Name}
			byProject[d.ProjectID] = entry
		}
		entry.TotalDefects++
		if isOpen(d.StatusID) {
			entry.OpenDefects++
		}
		if d.StatusID == constants.StatusClosed {
			entry.ClosedDefects++
		}
		if d.Info.Priority >= constants.PriorityHigh {
			entry.HighPriorityDefects++
		}
	}

	stats := make([]dto.ProjectStats, 0, len(byProject))
	for _, entry := range byProject {
		stats = append(stats, *entry)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TotalDefects > stats[j].TotalDefects })

	return stats, nil
}

// ByUser returns the per-assignee workload for Observer and Engineer
// users holding at least one defect. Engineer-or-above only.
func (s *StatisticsService) ByUser(actor Actor) ([]dto.UserStats, error) {
	if !policy.Allows(actor.RoleID, policy.ActionManageDefects) {
		return nil, ErrForbidden
	}

	users, err := s.userRepo.ListByRoles([]uint64{constants.RoleObserver, constants.RoleEngineer})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	now := time.Now().UTC()
	stats := make([]dto.UserStats, 0, len(users))
	for _, u := range users {
		if len(u.ResponsibleDefects) == 0 {
			continue
		}

		entry := dto.UserStats{
			UserID:               u.ID,
			DisplayName:          u.DisplayName,
			RoleName:             u.Role.Name,
			TotalAssignedDefects: len(u.ResponsibleDefects),
		}

		var completionSum float64
		var completed int
		for _, d := range u.ResponsibleDefects {
			if isOpen(d.StatusID) {
				entry.OpenDefects++
				if d.Info.DueDate != nil && d.Info.DueDate.Before(now) {
					entry.OverdueDefects++
				}
			}
			if d.StatusID == constants.StatusClosed {
				entry.ClosedDefects++
				completionSum += d.UpdatedDate.Sub(d.CreatedDate).Hours() / 24
				completed++
			}
		}
		if completed > 0 {
			avg := completionSum / float64(completed)
			entry.AverageCompletionDays = &avg
		}

		stats = append(stats, entry)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].TotalAssignedDefects > stats[j].TotalAssignedDefects
	})

	return stats, nil
}

// Timeline returns per-day created/closed counts for the trailing
// window, with missing days filled with zero rows.
func (s *StatisticsService) Timeline(actor Actor, days int) ([]dto.TimelineStats, error) {
	if days <= 0 {
		days = 30
	}

	now := time.Now().UTC()
	start := now.Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))
	defects, err := s.defectRepo.ListScoped(actor.RoleID, actor.ID, &start)
	if err != nil {
		return nil, fmt.Errorf("failed to load defects: %w", err)
	}

	created := make(map[time.Time]int)
	closed := make(map[time.Time]int)
	for _, d := range defects {
		day := d.CreatedDate.UTC().Truncate(24 * time.Hour)
		created[day]++
		if d.StatusID == constants.StatusClosed {
			closed[day]++
		}
	}

	var timeline []dto.TimelineStats
	for day := start; !day.After(now.Truncate(24 * time.Hour)); day = day.AddDate(0, 0, 1) {
		timeline = append(timeline, dto.TimelineStats{
			Date:         day,
			CreatedCount: created[day],
			ClosedCount:  closed[day],
		})
	}

	return timeline, nil
}

// PriorityMetrics aggregates the priority banding over visible defects.
func (s *StatisticsService) PriorityMetrics(actor Actor) (*dto.PriorityMetrics, error) {
	defects, err := s.defectRepo.ListScoped(actor.RoleID, actor.ID, nil, "Info")
	if err != nil {
		return nil, fmt.Errorf("failed to load defects: %w", err)
	}

	metrics := &dto.PriorityMetrics{TotalDefects: len(defects)}
	now := time.Now().UTC()

	var prioritySum int
	for _, d := range defects {
		prioritySum += int(d.Info.Priority)
		switch {
		case d.Info.Priority >= constants.PriorityHigh:
			metrics.HighPriorityCount++
			if isOpen(d.StatusID) && d.Info.DueDate != nil && d.Info.DueDate.Before(now) {
				metrics.OverdueHighPriority++
			}
		case d.Info.Priority == constants.PriorityMedium:
			metrics.MediumPriorityCount++
		default:
			metrics.LowPriorityCount++
		}
	}
	if len(defects) > 0 {
		metrics.AveragePriority = float64(prioritySum) / float64(len(defects))
	}

	return metrics, nil
}

// ProjectDetails returns the drill-down view of one project.
func (s *StatisticsService) ProjectDetails(actor Actor, projectID uint64) (*dto.ProjectDetailStats, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	defects, err := s.defectRepo.ListScoped(actor.RoleID, actor.ID, nil, "Info")
	if err != nil {
		return nil, fmt.Errorf("failed to load defects: %w", err)
	}

	stats := &dto.ProjectDetailStats{
		ProjectID:       project.ID,
		ProjectName:     project.Name,
		ProjectStatus:   project.ProjectStatus.Name,
		DefectsByStatus: make(map[uint64]int),
	}

	var prioritySum int
	var closed int
	var oldestOpen *models.Defect
	for i := range defects {
		d := &defects[i]
		if d.ProjectID != projectID {
			continue
		}
		stats.TotalDefects++
		stats.DefectsByStatus[d.StatusID]++
		prioritySum += int(d.Info.Priority)
		if d.StatusID == constants.StatusClosed {
			closed++
		}
		if isOpen(d.StatusID) && (oldestOpen == nil || d.CreatedDate.Before(oldestOpen.CreatedDate)) {
			oldestOpen = d
		}
	}

	if stats.TotalDefects > 0 {
		stats.AveragePriority = float64(prioritySum) / float64(stats.TotalDefects)
		stats.CompletionRate = float64(closed) / float64(stats.TotalDefects) * 100
	}
	if oldestOpen != nil {
		name := oldestOpen.Info.DefectName
		stats.OldestOpenDefect = &name
	}

	return stats, nil
}
