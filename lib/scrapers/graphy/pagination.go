package graphy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
)

// SubmissionPageSize is the fixed page length the submissions endpoint
// is driven with.
const SubmissionPageSize = 50

const assetPageSize = 100

// Page is one bounded response from the submissions endpoint. Exactly
// one of Items/Err is meaningful: a failed fetch carries Err and no
// items. The default drive loops treat an errored page the same as an
// empty one (end of data), but callers that need to tell silent
// truncation apart from exhaustion can inspect Err.
type Page struct {
	Items []SubmissionItem
	Err   error
}

// End reports whether pagination should stop at this page.
func (p Page) End() bool {
	return p.Err != nil || len(p.Items) == 0
}

func datatablesParams(start, length int) map[string]string {
	return map[string]string{
		"draw":          "1",
		"start":         strconv.Itoa(start),
		"length":        strconv.Itoa(length),
		"search[value]": "",
		"search[regex]": "false",
	}
}

// FetchSubmissionsPage requests one page of submissions for an
// assignment, starting at the given row offset.
func (c *Client) FetchSubmissionsPage(ctx context.Context, assignmentId string, start int) Page {
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Referer", c.BaseUrl.JoinPath("/s/assignments").String()).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetQueryParams(datatablesParams(start, SubmissionPageSize)).
		SetQueryParam("queries", "{}").
		Get(fmt.Sprintf("/s/assignments/%s/submissions", assignmentId))
	if err != nil {
		return Page{Err: err}
	}
	if res.StatusCode() != 200 {
		return Page{Err: fmt.Errorf("fetch submissions: status %d", res.StatusCode())}
	}

	var envelope dataEnvelope[SubmissionItem]
	err = json.Unmarshal(res.Body(), &envelope)
	if err != nil {
		return Page{Err: fmt.Errorf("fetch submissions: %w", err)}
	}
	return Page{Items: envelope.Data}
}

// Submissions drains the submissions endpoint for one assignment,
// calling yield for every non-empty page in order. Pagination stops at
// the first empty or errored page, or when yield returns false; a
// fetch error is logged, not returned, so a mid-run failure truncates
// the result instead of failing it.
func (c *Client) Submissions(ctx context.Context, assignmentId string, yield func(items []SubmissionItem) bool) {
	start := 0
	for {
		page := c.FetchSubmissionsPage(ctx, assignmentId, start)
		if page.Err != nil {
			slog.ErrorContext(
				ctx, "fetch submissions page",
				"assignment", assignmentId,
				"start", start,
				"err", page.Err,
			)
			return
		}
		if len(page.Items) == 0 {
			return
		}
		if !yield(page.Items) {
			return
		}
		slog.InfoContext(
			ctx, "fetched submissions",
			"assignment", assignmentId,
			"start", start,
			"count", len(page.Items),
		)
		start += SubmissionPageSize
	}
}

// assetQueries filters course assets down to assignments and asks for
// review tallies; the sort biases under-review items first, which only
// affects display order.
const assetQueries = `{"spayee:resource.spayee:courseAssetType":"assignment","reviewCount":true}`

// FetchAllAssignments drains the course assets endpoint and returns
// every assignment the account can see. A page error stops the drain
// and returns what was fetched so far.
func (c *Client) FetchAllAssignments(ctx context.Context) []CourseAsset {
	var assets []CourseAsset
	start := 0
	for {
		res, err := c.Http.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetHeader("Referer", c.BaseUrl.JoinPath("/s/courseassets").String()).
			SetHeader("X-Requested-With", "XMLHttpRequest").
			SetQueryParams(datatablesParams(start, assetPageSize)).
			SetQueryParams(map[string]string{
				"queries":        assetQueries,
				"timezoneOffset": "-330",
				"sortBy":         "reviewCount.underreview",
				"sortDir":        "-1",
			}).
			Get("/s/courseassets")
		if err == nil && res.StatusCode() != 200 {
			err = fmt.Errorf("fetch course assets: status %d", res.StatusCode())
		}
		if err != nil {
			slog.ErrorContext(ctx, "fetch course assets page", "start", start, "err", err)
			break
		}

		var envelope dataEnvelope[CourseAsset]
		err = json.Unmarshal(res.Body(), &envelope)
		if err != nil {
			slog.ErrorContext(ctx, "decode course assets page", "start", start, "err", err)
			break
		}
		if len(envelope.Data) == 0 {
			break
		}
		assets = append(assets, envelope.Data...)
		start += assetPageSize
	}

	slog.InfoContext(ctx, "fetched assignments", "total", len(assets))
	return assets
}
