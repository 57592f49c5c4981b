package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/util"
	"formation_quiz_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportService renders parcours results as CSV. Every generated file is
// also archived through the configured storage provider.
type ExportService struct {
	ParcoursRepo *repository.ParcoursRepository
	UserRepo     *repository.UserRepository
	Storage      StorageProvider
}

func NewExportService(
	parcoursRepo *repository.ParcoursRepository,
	userRepo *repository.UserRepository,
	storage StorageProvider,
) *ExportService {
	return &ExportService{
		ParcoursRepo: parcoursRepo,
		UserRepo:     userRepo,
		Storage:      storage,
	}
}

var exportHeader = []string{
	"trainee_last_name",
	"trainee_first_name",
	"company",
	"questionnaire",
	"status",
	"started_at",
	"time_spent_sec",
	"score",
	"grade_on_20",
	"avg_time_per_question",
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// TraineeResultsCSV exports one trainee's full parcours history.
func (s *ExportService) TraineeResultsCSV(ctx context.Context, traineeID uint) ([]byte, string, error) {
	profile, err := s.UserRepo.FindProfileByID(traineeID)
	if err != nil {
		return nil, "", util.ErrTraineeNotFound
	}

	parcours, err := s.ParcoursRepo.ListByTrainee(traineeID)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("results_trainee_%d_%s_%s.csv", traineeID, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	payload, err := s.render(profilesRows(profile, parcours))
	if err != nil {
		return nil, "", err
	}

	s.archive(ctx, filename, payload)
	return payload, filename, nil
}

// AllResultsCSV exports every trainee's parcours history in one file.
func (s *ExportService) AllResultsCSV(ctx context.Context) ([]byte, string, error) {
	profiles, err := s.UserRepo.ListAllTraineeProfiles()
	if err != nil {
		return nil, "", err
	}

	var rows [][]string
	for i := range profiles {
		parcours, err := s.ParcoursRepo.ListByTrainee(profiles[i].ID)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, profilesRows(&profiles[i], parcours)...)
	}

	filename := fmt.Sprintf("results_all_%s_%s.csv", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	payload, err := s.render(rows)
	if err != nil {
		return nil, "", err
	}

	s.archive(ctx, filename, payload)
	return payload, filename, nil
}

func profilesRows(profile *model.TraineeProfile, parcours []model.Parcours) [][]string {
	rows := make([][]string, 0, len(parcours))
	for _, p := range parcours {
		rows = append(rows, []string{
			profile.User.LastName,
			profile.User.FirstName,
			profile.Company,
			p.Questionnaire.Name,
			p.Status,
			p.StartedAt.Format(util.TimeFormat),
			strconv.Itoa(p.TimeSpentSec),
			formatNullable(p.Score),
			formatNullable(p.GradeOn20),
			formatNullable(p.AvgTimePerQuestion),
		})
	}
	return rows
}

func (s *ExportService) render(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// archive keeps a copy of the export; failures are logged, the download
// still succeeds.
func (s *ExportService) archive(ctx context.Context, filename string, payload []byte) {
	if s.Storage == nil {
		return
	}
	_, err := s.Storage.Upload(ctx, filename, bytes.NewReader(payload), int64(len(payload)), "text/csv")
	if err != nil {
		logger.Log.Warn("failed to archive export", zap.String("file", filename), zap.Error(err))
	}
}
