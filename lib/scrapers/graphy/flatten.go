package graphy

import (
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/textutil"
)

// FlatRow is the denormalized unit the pipeline writes to CSV: one
// submission attempt joined with its item-level identity fields.
type FlatRow struct {
	AssignmentId   string
	Id             string
	StudentId      string
	Email          string
	StudentName    string
	CourseId       string
	MentorId       string
	CohortCode     string
	Status         string
	Marks          string
	Feedback       string
	SubmittedAt    string
	FileName       string
	AssignmentFile string
}

// Flatten expands one submission item into one row per attempt.
// Normalization happens here, once, instead of per field access:
//   - the institutional email prefix is stripped
//   - feedback newlines collapse to single spaces, trimmed
//   - the mentor id is the last attempt's adminId, applied to every
//     row of the item (a known precision loss for multi-attempt items)
//   - missing fields become empty strings
//   - cohort code is a placeholder, always empty
func Flatten(item SubmissionItem, assignmentId string) []FlatRow {
	mentorId := ""
	if len(item.Attempts) > 0 {
		mentorId = item.Attempts[len(item.Attempts)-1].AdminId
	}
	email := textutil.StripEmailPrefix(item.User.Email)

	rows := make([]FlatRow, len(item.Attempts))
	for i, attempt := range item.Attempts {
		rows[i] = FlatRow{
			AssignmentId:   assignmentId,
			Id:             item.Id,
			StudentId:      item.User.Id,
			Email:          email,
			StudentName:    item.User.Name,
			CourseId:       item.CourseId,
			MentorId:       mentorId,
			CohortCode:     "",
			Status:         attempt.Status,
			Marks:          attempt.Marks.String(),
			Feedback:       textutil.CollapseNewlines(attempt.Message),
			SubmittedAt:    attempt.Date.String(),
			FileName:       attempt.FileName,
			AssignmentFile: attempt.FilePath,
		}
	}
	return rows
}

// Record lists the row's values in submission export column order.
func (r FlatRow) Record() []string {
	return []string{
		r.AssignmentId,
		r.Id,
		r.StudentId,
		r.Email,
		r.StudentName,
		r.CourseId,
		r.MentorId,
		r.CohortCode,
		r.Status,
		r.Marks,
		r.Feedback,
		r.SubmittedAt,
		r.FileName,
		r.AssignmentFile,
	}
}
