package history

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

const SCHEMA = `CREATE TABLE IF NOT EXISTS meta (name text, source_format text, created timestamp, session text);
CREATE TABLE IF NOT EXISTS frames (idx integer NOT NULL PRIMARY KEY, stamp integer NOT NULL,
 ch1 integer, ch2 integer, ch3 integer, ch4 integer, ch5 integer, ch6 integer, ch7 integer, ch8 integer,
 ch9 integer, ch10 integer, ch11 integer, ch12 integer, ch13 integer, ch14 integer, ch15 integer, ch16 integer)`

const IMETA = `insert into meta (name, source_format, created, session) values ($1,$2,$3,$4)`

var chcols = func() string {
	s := make([]string, types.MAX_CHANNELS)
	for j := range s {
		s[j] = fmt.Sprintf("ch%d", j+1)
	}
	return strings.Join(s, ",")
}()

type sqlFrame struct {
	Stamp int64
	Ch    [16]sql.NullInt64
}

func loadSQLite(fn string) (*History, error) {
	if _, err := os.Stat(fn); err != nil {
		return nil, types.WrapError(types.ErrHistory, err, "cannot open file")
	}
	db, err := sqlx.Open("sqlite", fn)
	if err != nil {
		return nil, types.WrapError(types.ErrHistory, err, fn)
	}
	defer db.Close()

	h := &History{}
	var name sql.NullString
	err = db.Get(&name, `select name from meta limit 1`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) && !strings.Contains(err.Error(), "no such table") {
		return nil, types.WrapError(types.ErrHistory, err, "meta")
	}
	h.Meta.Name = name.String

	rows, err := db.Queryx(`select stamp,` + chcols + ` from frames order by idx`)
	if err != nil {
		return nil, types.WrapError(types.ErrHistory, err, "frames")
	}
	defer rows.Close()
	for rows.Next() {
		var sf sqlFrame
		dest := []interface{}{&sf.Stamp}
		for j := range sf.Ch {
			dest = append(dest, &sf.Ch[j])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, types.WrapError(types.ErrHistory, err, "frames")
		}
		if sf.Stamp < 0 || sf.Stamp > int64(^uint32(0)) {
			return nil, types.NewError(types.ErrHistory, "Frame %d: Invalid timestamp", len(h.Frames))
		}
		f := types.HistoryFrame{Stamp: uint32(sf.Stamp)}
		for j, c := range sf.Ch {
			if c.Valid {
				if c.Int64 < math.MinInt16 || c.Int64 > math.MaxInt16 {
					return nil, types.NewError(types.ErrHistory, "Frame %d: Invalid channel value", len(h.Frames))
				}
				f.Chans[j] = int16(c.Int64)
			} else {
				f.Chans[j] = types.CRSF_CHANNEL_MID
			}
		}
		h.Frames = append(h.Frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrHistory, err, "frames")
	}
	if len(h.Frames) == 0 {
		return nil, types.NewError(types.ErrHistory, "No frames found in file")
	}
	h.Meta = computeMetadata(h.Frames, types.FileTypeName(types.IS_SQLITE), h.Meta.Name)
	return h, nil
}

// WriteSQLite replaces fn with a database holding h.
func WriteSQLite(fn string, h *History, session string) error {
	os.Remove(fn)
	db, err := sqlx.Open("sqlite", fn)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err = db.Exec(SCHEMA); err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	if _, err = db.Exec(IMETA, h.Meta.Name, h.Meta.Format, time.Now().UTC(), session); err != nil {
		return fmt.Errorf("meta: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	args := make([]string, types.MAX_CHANNELS+2)
	for j := range args {
		args[j] = fmt.Sprintf("$%d", j+1)
	}
	stmt, err := tx.Preparex(`insert into frames (idx,stamp,` + chcols + `) values (` + strings.Join(args, ",") + `)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	vals := make([]interface{}, types.MAX_CHANNELS+2)
	for j, f := range h.Frames {
		vals[0] = j
		vals[1] = int64(f.Stamp)
		for k, c := range f.Chans {
			vals[k+2] = int64(c)
		}
		if _, err := stmt.Exec(vals...); err != nil {
			tx.Rollback()
			return fmt.Errorf("frame %d: %w", j, err)
		}
	}
	return tx.Commit()
}
