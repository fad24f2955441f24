// Package supabase is a thin client for the hosted table store the
// merged submissions are pushed to. It speaks the PostgREST surface
// directly; the pipeline only ever inserts.
package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	Http *resty.Client
}

type ClientOptions struct {
	// project url, e.g. https://xyzcompany.supabase.co
	Url string
	// service role or anon key
	Key string
	// postgres schema, defaults to "public"
	Schema string
}

func NewClient(opts ClientOptions) *Client {
	schema := opts.Schema
	if schema == "" {
		schema = "public"
	}

	client := resty.New()
	client.SetBaseURL(opts.Url)
	client.SetHeader("apikey", opts.Key)
	client.SetHeader("Authorization", "Bearer "+opts.Key)
	client.SetHeader("Content-Profile", schema)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "sinks/supabase/http")

	return &Client{Http: client}
}

// Insert posts a batch of records to the named table. Records must be
// flat string maps; the sink rejects anything non-scalar.
func (c *Client) Insert(ctx context.Context, table string, records []map[string]string) error {
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(records).
		Post("/rest/v1/" + table)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("insert into %s: status %d: %s", table, res.StatusCode(), res.String())
	}
	return nil
}
