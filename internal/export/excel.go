package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fmuoria/career-coach/internal/interview"
	"github.com/fmuoria/career-coach/internal/models"
)

const (
	SummarySheet    = "Summary"
	InterviewsSheet = "Interviews"
	ResumesSheet    = "Resumes"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteWorkbook writes an xlsx report of one user's interviews and resumes.
// Interview scores and verdicts are the advisory values read from the
// feedback text.
func WriteWorkbook(w io.Writer, owner string, sessions []models.InterviewSession, resumes []models.Resume) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SummarySheet)
	if _, err := f.NewSheet(InterviewsSheet); err != nil {
		return fmt.Errorf("failed to create interviews sheet: %w", err)
	}
	if _, err := f.NewSheet(ResumesSheet); err != nil {
		return fmt.Errorf("failed to create resumes sheet: %w", err)
	}

	if err := createSummarySheet(f, SummarySheet, owner, sessions, resumes); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createInterviewsSheet(f, InterviewsSheet, sessions); err != nil {
		return fmt.Errorf("failed to create interviews sheet: %w", err)
	}
	if err := createResumesSheet(f, ResumesSheet, resumes); err != nil {
		return fmt.Errorf("failed to create resumes sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
}

func writeHeaders(f *excelize.File, sheetName string, headers []string, style int) {
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func freezeHeader(f *excelize.File, sheetName string) {
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// createSummarySheet writes owner details and aggregate statistics
func createSummarySheet(f *excelize.File, sheetName, owner string, sessions []models.InterviewSession, resumes []models.Resume) error {
	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 40)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	completed, passed, scoreTotal := 0, 0, 0
	for _, s := range sessions {
		if !s.Concluded() {
			continue
		}
		completed++
		scoreTotal += interview.ParseScore(*s.Feedback)
		if interview.IsPassed(*s.Feedback) {
			passed++
		}
	}

	atsTotal := 0
	for _, r := range resumes {
		atsTotal += r.ATSScore
	}

	rows := [][2]interface{}{
		{"User:", owner},
		{"Generated:", time.Now().UTC().Format("2006-01-02 15:04:05")},
		{"Resumes Analyzed:", len(resumes)},
		{"Interviews Started:", len(sessions)},
		{"Interviews Completed:", completed},
		{"Interviews Passed:", passed},
	}
	if len(resumes) > 0 {
		rows = append(rows, [2]interface{}{"Average ATS Score:", fmt.Sprintf("%.2f", float64(atsTotal)/float64(len(resumes)))})
	}
	if completed > 0 {
		rows = append(rows, [2]interface{}{"Average Interview Score:", fmt.Sprintf("%.2f", float64(scoreTotal)/float64(completed))})
	}

	row := 1
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Career Coach Report")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), titleStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	for _, r := range rows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r[0])
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r[1])
		row++
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row+1), "Note:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row+1), fmt.Sprintf("A%d", row+1), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row+1),
		"Interview scores and pass/fail verdicts are read from the AI feedback text and are indicative only.")

	return nil
}

// createInterviewsSheet writes one row per session, colored by verdict
func createInterviewsSheet(f *excelize.File, sheetName string, sessions []models.InterviewSession) error {
	widths := map[string]float64{"A": 26, "B": 22, "C": 20, "D": 12, "E": 12, "F": 10, "G": 10, "H": 80}
	for col, width := range widths {
		f.SetColWidth(sheetName, col, col, width)
	}

	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	passStyle, err := fillStyle(f, "C6EFCE")
	if err != nil {
		return err
	}
	failStyle, err := fillStyle(f, "FFC7CE")
	if err != nil {
		return err
	}
	openStyle, err := fillStyle(f, "FFEB9C")
	if err != nil {
		return err
	}

	writeHeaders(f, sheetName, []string{"Interview ID", "Started", "Domain", "Questions", "Answers", "Score", "Result", "Feedback"}, header)

	for i, s := range sessions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.ID.Hex())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.CreatedAt.UTC().Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Domain)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), len(s.Questions))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), len(s.Answers))

		style := openStyle
		if s.Concluded() {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), interview.ParseScore(*s.Feedback))
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), *s.Feedback)
			if interview.IsPassed(*s.Feedback) {
				f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), "Pass")
				style = passStyle
			} else {
				f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), "Fail")
				style = failStyle
			}
		} else {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), "In progress")
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), style)
	}

	if len(sessions) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:H%d", len(sessions)+1), []excelize.AutoFilterOptions{})
	}
	freezeHeader(f, sheetName)
	return nil
}

// createResumesSheet writes one row per resume, colored by ATS score band
func createResumesSheet(f *excelize.File, sheetName string, resumes []models.Resume) error {
	widths := map[string]float64{"A": 26, "B": 22, "C": 25, "D": 12, "E": 40, "F": 40, "G": 60}
	for col, width := range widths {
		f.SetColWidth(sheetName, col, col, width)
	}

	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	bands := []struct {
		min   int
		color string
	}{
		{80, "C6EFCE"},
		{60, "FFEB9C"},
		{40, "FFC7CE"},
		{0, "FF9999"},
	}
	bandStyles := make([]int, len(bands))
	for i, b := range bands {
		if bandStyles[i], err = fillStyle(f, b.color); err != nil {
			return err
		}
	}

	writeHeaders(f, sheetName, []string{"Resume ID", "Uploaded", "Name", "ATS Score", "Skills", "Missing", "Suggestions"}, header)

	for i, r := range resumes {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID.Hex())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.CreatedAt.UTC().Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.ATSScore)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), strings.Join(r.Skills, ", "))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), strings.Join(r.Missing, ", "))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), strings.Join(r.Suggestions, "\n"))

		style := bandStyles[len(bandStyles)-1]
		for j, b := range bands {
			if r.ATSScore >= b.min {
				style = bandStyles[j]
				break
			}
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), style)
	}

	if len(resumes) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:G%d", len(resumes)+1), []excelize.AutoFilterOptions{})
	}
	freezeHeader(f, sheetName)
	return nil
}
