package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func parsePathID(c *gin.Context, name string) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// queryIDList parses a repeated or comma-separated id query parameter.
func queryIDList(c *gin.Context, name string) ([]snowflake.ID, bool) {
	var ids []snowflake.ID
	for _, raw := range queryValues(c, name) {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func queryInt16List(c *gin.Context, name string) ([]int16, bool) {
	var values []int16
	for _, raw := range queryValues(c, name) {
		v, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			return nil, false
		}
		values = append(values, int16(v))
	}
	return values, true
}

func queryValues(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryInt(c *gin.Context, name string) (*int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}

func queryBool(c *gin.Context, name string) bool {
	raw := strings.ToLower(strings.TrimSpace(c.Query(name)))
	return raw == "1" || raw == "true" || raw == "yes"
}

type dateValue struct {
	time.Time
}

func (d *dateValue) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d dateValue) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}
