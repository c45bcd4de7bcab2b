package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/adas-hsched/hsched/sim"
)

// csvRootID / csvCoreID name the single synthesized EDF root and core a CSV
// task table becomes, per §6: "the resulting set becomes a single EDF root
// component on a single core with performance factor 1."
const (
	csvRootID = "csv-root"
	csvCoreID = "core-csv"
)

// LoadCSV reads a whitespace-, tab-, or comma-separated task table (columns
// `name bcet wcet period deadline [priority]`) and returns it as a
// SystemModel with one EDF root component on one core at performance factor
// 1 (§6). A header row is detected if the first row contains both "Task" and
// "WCET" (case-insensitive substring match per column). Rows whose wcet,
// period, or deadline do not parse are skipped and logged, mirroring the
// teacher's generateRequestsFromCSV skip-and-continue idiom.
func LoadCSV(r io.Reader) (*sim.SystemModel, error) {
	rows, err := readCSVRows(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrInvalidModel, err)
	}
	if len(rows) > 0 && looksLikeHeader(rows[0]) {
		rows = rows[1:]
	}

	root := &sim.Component{ID: csvRootID, Name: "CSV task table", Algorithm: sim.EDF, IsRoot: true, CoreID: csvCoreID}
	root.Interface = sim.BDRInterface{Alpha: 1, Delta: 0}

	for i, row := range rows {
		task, ok := parseCSVRow(i, row)
		if !ok {
			continue
		}
		root.Tasks = append(root.Tasks, task)
	}

	model := &sim.SystemModel{
		Cores:          []*sim.Core{{ID: csvCoreID, Name: "csv", PerformanceFactor: 1}},
		RootComponents: []*sim.Component{root},
	}
	return model, nil
}

// readCSVRows parses the table's non-blank lines. If the first of them
// contains a comma, every line is handed to encoding/csv so quoted fields
// behave as CSV normally does. Otherwise each line is split on its own: on
// tabs if it contains one, else on runs of whitespace. Tab and whitespace
// tables are plain column splits, since §6 allows all three and proper CSV
// quoting only applies to the comma form.
func readCSVRows(r io.Reader) ([][]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	if strings.Contains(lines[0], ",") {
		reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, err
		}
		return rows, nil
	}

	var rows [][]string
	for _, line := range lines {
		if strings.ContainsFunc(line, unicode.IsSpace) && strings.Contains(line, "\t") {
			fields := strings.Split(line, "\t")
			for i, f := range fields {
				fields[i] = strings.TrimSpace(f)
			}
			rows = append(rows, fields)
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	return rows, nil
}

// looksLikeHeader reports whether row's columns contain both "task" and
// "wcet" (case-insensitive), per §6's header-detection rule.
func looksLikeHeader(row []string) bool {
	var sawTask, sawWCET bool
	for _, col := range row {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "task") {
			sawTask = true
		}
		if strings.Contains(lower, "wcet") {
			sawWCET = true
		}
	}
	return sawTask && sawWCET
}

// parseCSVRow parses one `name bcet wcet period deadline [priority]` row,
// returning (nil, false) for rows with non-parseable wcet/period/deadline —
// skipped and logged, never fatal (§6).
func parseCSVRow(rowIdx int, row []string) (*sim.Task, bool) {
	if len(row) < 5 {
		logrus.Warnf("[ingest] csv row %d has %d columns, need at least 5; skipped", rowIdx, len(row))
		return nil, false
	}

	name := row[0]
	bcet, bcetErr := strconv.ParseFloat(row[1], 64)
	wcet, wcetErr := strconv.ParseFloat(row[2], 64)
	period, periodErr := strconv.ParseFloat(row[3], 64)
	deadline, deadlineErr := strconv.ParseFloat(row[4], 64)

	if wcetErr != nil || periodErr != nil || deadlineErr != nil {
		logrus.Warnf("[ingest] csv row %d (%s) has non-parseable wcet/period/deadline; skipped", rowIdx, name)
		return nil, false
	}

	task := &sim.Task{
		ID:       fmt.Sprintf("csv-task-%d-%s", rowIdx, name),
		Name:     name,
		Kind:     sim.Periodic,
		WCET:     wcet,
		Deadline: deadline,
		Period:   period,
	}
	if bcetErr == nil {
		task.BCET = &bcet
	}

	if len(row) >= 6 {
		if prio, err := strconv.Atoi(row[5]); err == nil {
			task.Priority = &prio
		}
	}

	return task, true
}
