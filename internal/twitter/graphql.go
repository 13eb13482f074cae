// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/chirp/internal/extract"
	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/logging"
)

// query is one GraphQL read or write.
type query struct {
	op           string
	method       string
	policy       string
	variables    map[string]any
	features     map[string]bool
	fieldToggles map[string]bool
}

// graphql runs q under its retry policy. A 404 marks the query id stale,
// refreshes it and resends once within the same attempt; a second 404 is
// surfaced. Responses whose errors array comes without data are returned
// as *APIError.
func (c *Client) graphql(ctx context.Context, q query) (gjson.Result, error) {
	policy := c.retries.PolicyFor(q.policy)
	return httputil.Retry(ctx, c.log, policy, q.op, func(ctx context.Context) (gjson.Result, error) {
		id, err := c.resolver.ID(ctx, q.op)
		if err != nil {
			return gjson.Result{}, httputil.Permanent(err)
		}
		body, err := c.graphqlOnce(ctx, id, q)
		if IsStatus(err, http.StatusNotFound) {
			fresh, rerr := c.refreshQueryID(ctx, q.op)
			if rerr != nil {
				return gjson.Result{}, httputil.Permanent(fmt.Errorf("%w; query id refresh: %v", err, rerr))
			}
			body, err = c.graphqlOnce(ctx, fresh, q)
		}
		if err != nil {
			return gjson.Result{}, retryable(err)
		}
		return body, nil
	})
}

func (c *Client) refreshQueryID(ctx context.Context, op string) (string, error) {
	c.metrics.QueryIDRefreshes.Inc()
	c.log.Info("graphql", "query_id_stale", logging.Fields{"operation": op})
	return c.resolver.Refresh(ctx, op)
}

func (c *Client) graphqlOnce(ctx context.Context, id string, q query) (gjson.Result, error) {
	endpoint := fmt.Sprintf("%s/graphql/%s/%s", apiBase, id, q.op)
	req := request{name: q.op, method: q.method}

	switch q.method {
	case http.MethodPost:
		payload := map[string]any{"variables": q.variables, "queryId": id}
		if q.features != nil {
			payload["features"] = q.features
		}
		if q.fieldToggles != nil {
			payload["fieldToggles"] = q.fieldToggles
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("encoding %s payload: %w", q.op, err)
		}
		req.body = data
		req.contentType = "application/json"
	default:
		req.method = http.MethodGet
		params := url.Values{}
		for key, v := range map[string]any{"variables": q.variables, "features": q.features, "fieldToggles": q.fieldToggles} {
			if isNil(v) {
				continue
			}
			data, err := json.Marshal(v)
			if err != nil {
				return gjson.Result{}, fmt.Errorf("encoding %s %s: %w", q.op, key, err)
			}
			params.Set(key, string(data))
		}
		endpoint += "?" + params.Encode()
	}
	req.url = endpoint

	resp, err := c.do(ctx, req)
	if err != nil {
		return gjson.Result{}, err
	}
	return c.checkBody(q.op, resp.JSON())
}

// checkBody turns an errors array into *APIError when no usable data came
// with it. Partial data is returned and the errors are logged.
func (c *Client) checkBody(op string, body gjson.Result) (gjson.Result, error) {
	errs := extract.Errors(body)
	if len(errs) == 0 {
		return body, nil
	}
	data := body.Get("data")
	if !data.Exists() || data.Type == gjson.Null || (data.IsObject() && len(data.Map()) == 0) {
		return gjson.Result{}, &APIError{Errors: errs}
	}
	c.log.Warn("graphql", "partial_errors", logging.Fields{
		"operation": op,
		"error":     (&APIError{Errors: errs}).Error(),
	})
	return body, nil
}

func isNil(v any) bool {
	switch m := v.(type) {
	case nil:
		return true
	case map[string]any:
		return m == nil
	case map[string]bool:
		return m == nil
	}
	return false
}
