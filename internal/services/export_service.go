package services

import (
	"context"
	"fmt"

	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ExportService builds report workbooks for download.
type ExportService interface {
	// ExportEventReport renders one workbook with a Participants sheet
	// and a Teams sheet for the event.
	ExportEventReport(ctx context.Context, eventID uint) ([]byte, string, error)
}

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportEventReport(ctx context.Context, eventID uint) ([]byte, string, error) {
	event, err := s.repo.Event().GetByIDWithDetails(ctx, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrEventNotFound
		}
		return nil, "", fmt.Errorf("event lookup failed: %w", err)
	}

	teams, err := s.repo.Team().GetByEvent(ctx, eventID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load teams: %w", err)
	}

	f := excelize.NewFile()

	participantsSheet := "Participants"
	index, err := f.NewSheet(participantsSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Student ID", "Name", "Email", "Roll Number", "Department", "Registered At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(participantsSheet, cell, header)
	}
	for rowIndex, reg := range event.Participants {
		row := []interface{}{reg.StudentID, "", "", "", "", reg.CreatedAt.Format("2006-01-02 15:04:05")}
		if reg.Student != nil {
			row[1] = reg.Student.Name
			row[2] = reg.Student.Email
			if reg.Student.RollNumber != nil {
				row[3] = *reg.Student.RollNumber
			}
			if reg.Student.Department != nil {
				row[4] = *reg.Student.Department
			}
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(participantsSheet, cell, value)
		}
	}

	teamsSheet := "Teams"
	if _, err := f.NewSheet(teamsSheet); err != nil {
		return nil, "", fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	teamHeaders := []string{"Team ID", "Team Name", "Leader", "Members", "Score", "Rank"}
	for i, header := range teamHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(teamsSheet, cell, header)
	}
	for rowIndex, team := range teams {
		leaderName := ""
		if team.Leader != nil {
			leaderName = team.Leader.Name
		}
		memberNames := ""
		for i, m := range team.Members {
			if m.Student == nil {
				continue
			}
			if i > 0 {
				memberNames += ", "
			}
			memberNames += m.Student.Name
		}
		rank := ""
		if team.Rank != nil {
			rank = fmt.Sprintf("%d", *team.Rank)
		}
		row := []interface{}{team.ID, team.TeamName, leaderName, memberNames, team.Score, rank}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(teamsSheet, cell, value)
		}
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Debug("Could not delete default sheet", "error", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("event_%d_report.xlsx", event.ID)
	s.logger.Info("Event report exported",
		"event_id", event.ID,
		"participants", len(event.Participants),
		"teams", len(teams))
	return buf.Bytes(), filename, nil
}
