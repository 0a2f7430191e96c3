package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/domain/workflow"
	"therapist-crm/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	exportDateLayout = "2006-01-02"
	exportCellDate   = "2.1.2006"
	exportMissing    = "-"
)

const (
	exportTherapists = "therapists"
	exportPatients   = "patients"
	exportLeads      = "leads"
	exportAll        = "all"
)

var ErrNothingToExport = errors.New("no records in the selected date range")

var (
	therapistExportHeaders = []string{"שם מלא", "אימייל", "טלפון", "עיר", "התמחויות", "שנות ניסיון",
		"מחיר לפגישה", "עובד בזום", "סטטוס", "תאריך הרשמה", "ציון AI"}
	patientExportHeaders = []string{"שם מלא", "אימייל", "טלפון", "עיר", "מזהה", "סיבת פנייה",
		"סטטוס", "מטפל משובץ", "תאריך פנייה", "תאריך שיבוץ", "מקור"}
	leadExportHeaders = []string{"שם", "טלפון", "אימייל", "עיר", "הודעה", "סטטוס", "תאריך פנייה"}
)

var exportSheetNames = map[string]string{
	exportTherapists: "מטפלים",
	exportPatients:   "מטופלים",
	exportLeads:      "לידים",
}

const (
	combinedExportName        = "דוח_מלא"
	assignedTherapistFallback = "מטפל משובץ"
)

type ExportUsecase interface {
	Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportFile, error)
}

type exportUsecase struct {
	log           *logrus.Logger
	loader        *dashboardLoader
	exportService service.ExportService
	now           func() time.Time
}

func NewExportUsecase(
	log *logrus.Logger,
	therapistRepo repository.TherapistRepository,
	patientRepo repository.PatientRepository,
	leadRepo repository.LeadRepository,
	exportService service.ExportService,
) ExportUsecase {
	return &exportUsecase{
		log: log,
		loader: &dashboardLoader{
			log:           log,
			therapistRepo: therapistRepo,
			patientRepo:   patientRepo,
			leadRepo:      leadRepo,
		},
		exportService: exportService,
		now:           time.Now,
	}
}

// Export builds a workbook for one entity, or one sheet per non-empty entity
// when Entity is "all".
func (u *exportUsecase) Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportFile, error) {
	state := u.loader.Load(ctx)
	if len(state.Failed) > 0 {
		return nil, fmt.Errorf("failed to load %s", strings.Join(state.Failed, ", "))
	}

	therapists := FilterByDateRange(state.Therapists, req.From, req.To, func(t entity.Therapist) time.Time { return t.CreatedAt })
	patients := FilterByDateRange(state.Patients, req.From, req.To, func(p entity.Patient) time.Time { return p.CreatedAt })
	leads := FilterByDateRange(state.Leads, req.From, req.To, func(l entity.Lead) time.Time { return l.CreatedAt })

	var sheets []service.Sheet
	if req.Entity == exportTherapists || req.Entity == exportAll {
		sheets = append(sheets, TherapistSheet(therapists))
	}
	if req.Entity == exportPatients || req.Entity == exportAll {
		sheets = append(sheets, PatientSheet(patients, state.Therapists))
	}
	if req.Entity == exportLeads || req.Entity == exportAll {
		sheets = append(sheets, LeadSheet(leads))
	}

	rows := 0
	for _, s := range sheets {
		rows += len(s.Rows)
	}
	if rows == 0 {
		return nil, ErrNothingToExport
	}

	content, err := u.exportService.BuildWorkbook(sheets)
	if err != nil {
		u.log.Warnf("Failed to build workbook: %+v", err)
		return nil, err
	}

	name := combinedExportName
	if req.Entity != exportAll {
		name = exportSheetNames[req.Entity]
	}
	u.log.Infof("Exported %d %s records", rows, req.Entity)

	return &dto.ExportFile{
		Filename: fmt.Sprintf("%s_%s.xlsx", name, u.now().UTC().Format(exportDateLayout)),
		Content:  content,
	}, nil
}

// FilterByDateRange keeps items whose UTC creation date falls within the
// inclusive YYYY-MM-DD bounds. Empty bounds are open. Items without a
// creation time are kept.
func FilterByDateRange[T any](items []T, from, to string, createdAt func(T) time.Time) []T {
	if from == "" && to == "" {
		return items
	}

	var out []T
	for _, item := range items {
		ts := createdAt(item)
		if ts.IsZero() {
			out = append(out, item)
			continue
		}
		day := ts.UTC().Format(exportDateLayout)
		if from != "" && day < from {
			continue
		}
		if to != "" && day > to {
			continue
		}
		out = append(out, item)
	}
	return out
}

func exportDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return exportMissing
	}
	return t.Format(exportCellDate)
}

func orMissing(values ...string) string {
	if v := firstNonEmpty(values...); v != "" {
		return v
	}
	return exportMissing
}

func TherapistSheet(therapists []entity.Therapist) service.Sheet {
	sheet := service.Sheet{Name: exportSheetNames[exportTherapists], Headers: therapistExportHeaders}
	for i := range therapists {
		t := &therapists[i]

		price := interface{}("התנדבות")
		if t.PricePerSession.Valid && !t.PricePerSession.Decimal.IsZero() {
			price = t.PricePerSession.Decimal.String()
		}
		online := "לא"
		if t.WorksOnline {
			online = "כן"
		}
		score := interface{}(exportMissing)
		if t.AIScore != nil && *t.AIScore != 0 {
			score = *t.AIScore
		}

		sheet.Rows = append(sheet.Rows, []interface{}{
			orMissing(t.DisplayName()),
			orMissing(t.ContactEmail()),
			orMissing(t.Phone),
			orMissing(t.City),
			orMissing(strings.Join(t.Specializations, ", ")),
			t.ExperienceYears,
			price,
			online,
			workflow.ExportLabel(workflow.KindTherapist, t.Status),
			exportDate(&t.CreatedAt),
			score,
		})
	}
	return sheet
}

// PatientSheet resolves assigned therapist names against the full therapist
// list, not the date-filtered one.
func PatientSheet(patients []entity.Patient, therapists []entity.Therapist) service.Sheet {
	names := make(map[string]string, len(therapists))
	for i := range therapists {
		names[therapists[i].ID.String()] = therapists[i].FullName
	}

	sheet := service.Sheet{Name: exportSheetNames[exportPatients], Headers: patientExportHeaders}
	for i := range patients {
		p := &patients[i]

		therapistName := exportMissing
		if p.AssignedTherapistID != nil {
			therapistName = firstNonEmpty(names[p.AssignedTherapistID.String()], assignedTherapistFallback)
		}
		source := orMissing(p.Source)
		if p.Source == entity.PatientSourceLeadConversion {
			source = "הומר מליד"
		}
		sheet.Rows = append(sheet.Rows, []interface{}{
			orMissing(p.DisplayName()),
			orMissing(p.ContactEmail()),
			orMissing(p.Phone),
			orMissing(p.City),
			orMissing(p.Identifier),
			orMissing(p.MainConcern),
			workflow.ExportLabel(workflow.KindPatient, p.Status),
			therapistName,
			exportDate(&p.CreatedAt),
			exportDate(p.MatchedAt),
			source,
		})
	}
	return sheet
}

func LeadSheet(leads []entity.Lead) service.Sheet {
	sheet := service.Sheet{Name: exportSheetNames[exportLeads], Headers: leadExportHeaders}
	for i := range leads {
		l := &leads[i]
		sheet.Rows = append(sheet.Rows, []interface{}{
			orMissing(l.Name),
			orMissing(l.Phone),
			orMissing(l.Email),
			orMissing(l.City),
			orMissing(l.Message),
			workflow.ExportLabel(workflow.KindLead, l.Status),
			exportDate(&l.CreatedAt),
		})
	}
	return sheet
}
