package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/natevvv/bestfirst/pkg/fileio"
)

var ErrInvalidScenario = errors.New("grid: invalid scenario")

// Scenario is one query of a MovingAI scenario file
type Scenario struct {
	Bucket         int
	Map            string
	Width, Height  int
	StartX, StartY int
	GoalX, GoalY   int
	Optimal        float64
}

// ParseScenarios reads the "version 1" scenario format (tab or space separated)
func ParseScenarios(r io.Reader) ([]Scenario, error) {
	scanner := bufio.NewScanner(r)
	scenarios := make([]Scenario, 0)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "version") || line[0] == '#' {
			continue
		}
		var s Scenario
		if _, err := fmt.Sscan(line, &s.Bucket, &s.Map, &s.Width, &s.Height, &s.StartX, &s.StartY, &s.GoalX, &s.GoalY, &s.Optimal); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidScenario, lineNumber, err)
		}
		scenarios = append(scenarios, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func LoadScenarios(filename string) ([]Scenario, error) {
	r, err := fileio.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	scenarios, err := ParseScenarios(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scenarios, nil
}
