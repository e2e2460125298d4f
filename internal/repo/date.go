package repo

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// sqliteTimestamp is the layout CURRENT_TIMESTAMP produces.
const sqliteTimestamp = "2006-01-02 15:04:05"

// Date stores timestamps as RFC 3339 text and reads back either that or
// the SQLite default layout.
type Date time.Time

func (d Date) Value() (driver.Value, error) {
	return time.Time(d).UTC().Format(time.RFC3339Nano), nil
}

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date(time.Time{})
		return nil
	case time.Time:
		*d = Date(v)
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	}

	return fmt.Errorf("cannot scan type %T into Date", value)
}

func (d *Date) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(sqliteTimestamp, s)
		if err != nil {
			return err
		}
	}
	*d = Date(t.UTC())
	return nil
}

func (d Date) Time() time.Time {
	return time.Time(d)
}
