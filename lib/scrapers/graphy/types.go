package graphy

import (
	"encoding/json"
	"strconv"
	"time"
)

// Scalar is a best-effort textual decoding of a JSON value that the
// platform serves inconsistently (numbers, strings, null). Missing or
// null values decode to "".
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Scalar(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = Scalar(strconv.FormatBool(b))
		return nil
	}
	*s = Scalar(data)
	return nil
}

func (s Scalar) String() string { return string(s) }

// Date is a mongo extended-json date: {"$date": <epoch millis or ISO string>}.
// The zero value renders as "".
type Date struct {
	Value Scalar `json:"$date"`
}

// String renders epoch milliseconds as an ISO-8601 timestamp and
// passes any other representation through unchanged.
func (d Date) String() string {
	if d.Value == "" {
		return ""
	}
	millis, err := strconv.ParseInt(string(d.Value), 10, 64)
	if err != nil {
		return string(d.Value)
	}
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}

// User identifies the learner who owns a submission.
type User struct {
	Id    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"fname"`
}

// SubmissionAttempt is one upload of an assignment by a learner,
// nested under a SubmissionItem's "data" array.
type SubmissionAttempt struct {
	Status   string `json:"status"`
	Marks    Scalar `json:"marks"`
	Message  string `json:"message"`
	Date     Date   `json:"date"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	AdminId  string `json:"adminId"`
}

// SubmissionItem is one learner-assignment pairing with every attempt
// the learner has made.
type SubmissionItem struct {
	Id       string              `json:"_id"`
	User     User                `json:"user"`
	CourseId string              `json:"courseId"`
	Attempts []SubmissionAttempt `json:"data"`
}

type resourceMeta struct {
	Title     string `json:"spayee:title"`
	AssetType string `json:"spayee:courseAssetType"`
}

type courseRef struct {
	Id       string       `json:"_id"`
	Resource resourceMeta `json:"spayee:resource"`
}

type createdBy struct {
	Id    string `json:"_id"`
	Name  string `json:"fname"`
	Email string `json:"email"`
}

type reviewCount struct {
	Reviewed    Scalar `json:"reviewed"`
	Rejected    Scalar `json:"rejected"`
	UnderReview Scalar `json:"underreview"`
}

// CourseAsset is one assignment as listed by the course assets
// endpoint, carrying descriptive metadata and review tallies.
type CourseAsset struct {
	Id           string       `json:"_id"`
	Resource     resourceMeta `json:"spayee:resource"`
	Courses      []courseRef  `json:"courses"`
	CreatedDate  Date         `json:"createdDate"`
	ModifiedDate Date         `json:"modifiedDate"`
	CreatedBy    createdBy    `json:"createdBy"`
	ReviewCount  reviewCount  `json:"reviewCount"`
}

// FirstCourse returns the id and title of the first course the asset
// is attached to, or empty strings when it is attached to none.
func (a CourseAsset) FirstCourse() (id, title string) {
	if len(a.Courses) == 0 {
		return "", ""
	}
	return a.Courses[0].Id, a.Courses[0].Resource.Title
}

type dataEnvelope[T any] struct {
	Data []T `json:"data"`
}
