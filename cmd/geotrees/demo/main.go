package main

import (
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kass/geotrees/pkg/geo"
	"github.com/kass/geotrees/pkg/kdtree"
	"github.com/kass/geotrees/pkg/octtree"
	"github.com/kass/geotrees/pkg/quadtree"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	statStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))
)

type stage int

const (
	stageQuad stage = iota
	stageQuadComplete
	stageOct
	stageOctComplete
	stageKD
	stageKDComplete
	stageDone
)

type benchmarkResult struct {
	totalQueries  int64
	buildTime     time.Duration
	totalTime     time.Duration
	totalResults  int64
	queriesPerSec float64
}

type model struct {
	stage           stage
	spinner         spinner.Model
	progress        progress.Model
	progressPercent float64

	quadStats benchmarkResult
	octStats  benchmarkResult
	kdStats   benchmarkResult

	messages []string
	width    int
	height   int
}

type progressMsg float64
type stageCompleteMsg struct {
	stage stage
	stats benchmarkResult
}
type messageMsg string

func initialModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	p := progress.New(progress.WithDefaultGradient())

	return model{
		stage:    stageQuad,
		spinner:  s,
		progress: p,
		messages: []string{},
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, runDemo())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		m.progressPercent = float64(msg)
		return m, m.progress.SetPercent(float64(msg))

	case messageMsg:
		m.messages = append(m.messages, string(msg))
		if len(m.messages) > 5 {
			m.messages = m.messages[1:]
		}
		return m, nil

	case stageCompleteMsg:
		switch msg.stage {
		case stageQuad:
			m.quadStats = msg.stats
			m.stage = stageQuadComplete
		case stageOct:
			m.octStats = msg.stats
			m.stage = stageOctComplete
		case stageKD:
			m.kdStats = msg.stats
			m.stage = stageKDComplete
		}

		if m.stage < stageDone {
			return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				m.stage++
				return nil
			})
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("geotrees demo"))
	b.WriteString("\n\n")

	switch m.stage {
	case stageQuad:
		b.WriteString(subtitleStyle.Render("Building QuadTree"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " Indexing 200,000 points and running rectangle queries...\n\n")
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageQuadComplete:
		b.WriteString(renderStats("QuadTree", m.quadStats))

	case stageOct:
		b.WriteString(subtitleStyle.Render("Building OctTree"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " Indexing space-time points and running nearby-point queries...\n\n")
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageOctComplete:
		b.WriteString(renderStats("OctTree", m.octStats))

	case stageKD:
		b.WriteString(subtitleStyle.Render("Building KDTree"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " Balancing the tree and running nearest-neighbour queries...\n\n")
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageKDComplete:
		b.WriteString(renderStats("KDTree", m.kdStats))

	case stageDone:
		b.WriteString(renderSummary(m))
	}

	if len(m.messages) > 0 {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Recent activity:"))
		b.WriteString("\n")
		for _, msg := range m.messages {
			b.WriteString(dimStyle.Render("• " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press 'q' to quit"))

	return b.String()
}

func renderStats(title string, stats benchmarkResult) string {
	content := fmt.Sprintf(
		"✓ Build time: %s\n"+
			"✓ Total queries: %s\n"+
			"✓ Total time: %s\n"+
			"✓ Queries per second: %s\n"+
			"✓ Total results found: %s",
		statStyle.Render(stats.buildTime.String()),
		statStyle.Render(fmt.Sprintf("%d", stats.totalQueries)),
		statStyle.Render(stats.totalTime.String()),
		statStyle.Render(fmt.Sprintf("%.0f", stats.queriesPerSec)),
		statStyle.Render(fmt.Sprintf("%d", stats.totalResults)),
	)

	return boxStyle.Render(successStyle.Render(title+" Complete!\n\n") + content)
}

func renderSummary(m model) string {
	summary := titleStyle.Render("Demo Complete!")
	summary += "\n\n"
	summary += infoStyle.Render("Each spatial tree was built once, single-threaded, then queried from a single goroutine:")
	summary += "\n\n"

	features := []string{
		fmt.Sprintf("• QuadTree rectangle queries (%s queries/sec)", statStyle.Render(fmt.Sprintf("%.0f", m.quadStats.queriesPerSec))),
		fmt.Sprintf("• OctTree space-time nearby-point queries (%s queries/sec)", statStyle.Render(fmt.Sprintf("%.0f", m.octStats.queriesPerSec))),
		fmt.Sprintf("• KDTree nearest-neighbour lookups (%s queries/sec)", statStyle.Render(fmt.Sprintf("%.0f", m.kdStats.queriesPerSec))),
	}
	for _, f := range features {
		summary += successStyle.Render(f) + "\n"
	}

	summary += "\n"
	summary += boxStyle.Render(
		infoStyle.Render("Performance Summary:\n\n") +
			fmt.Sprintf("Average query performance: %s", statStyle.Render(fmt.Sprintf("~%.0f queries/sec",
				(m.quadStats.queriesPerSec+m.octStats.queriesPerSec+m.kdStats.queriesPerSec)/3))),
	)

	return summary
}

func runDemo() tea.Cmd {
	return func() tea.Msg {
		go executeDemo()
		return nil
	}
}

var program *tea.Program

func executeDemo() {
	runQuadDemo()
	time.Sleep(500 * time.Millisecond)
	runOctDemo()
	time.Sleep(500 * time.Millisecond)
	runKDDemo()
}

// randomPoint returns a point clustered around one of a few major
// landmasses, with a residual uniform-random fraction.
func randomPoint(r *rand.Rand) (lon, lat float64) {
	switch r.Intn(5) {
	case 0:
		return r.Float64()*60 - 120, r.Float64()*30 + 30
	case 1:
		return r.Float64()*40 - 10, r.Float64()*20 + 40
	case 2:
		return r.Float64()*80 + 60, r.Float64()*40 + 20
	case 3:
		return r.Float64()*30 - 80, r.Float64()*40 - 50
	default:
		return r.Float64()*360 - 180, r.Float64()*180 - 90
	}
}

func generateRandomPoints(n int) []geo.Record[int] {
	points := make([]geo.Record[int], n)
	numWorkers := runtime.NumCPU()
	batchSize := n / numWorkers
	if batchSize < 1 {
		batchSize = 1
	}
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		startIdx := w * batchSize
		endIdx := startIdx + batchSize
		if w == numWorkers-1 {
			endIdx = n
		}
		go func(start, end int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(start)))
			for i := start; i < end; i++ {
				lon, lat := randomPoint(r)
				rec, err := geo.NewRecord(lon, lat, nil, "", i)
				if err != nil {
					continue
				}
				points[i] = rec
			}
		}(startIdx, endIdx)
	}
	wg.Wait()
	return points
}

func runQuadDemo() {
	numPoints := 200000
	numQueries := 1000

	points := generateRandomPoints(numPoints)

	boundary, err := geo.NewRectangle(-180, 180, -90, 90)
	if err != nil {
		program.Send(messageMsg(fmt.Sprintf("boundary error: %v", err)))
		return
	}

	start := time.Now()
	tree := quadtree.New[int](boundary, 8)
	for _, p := range points {
		tree.Insert(p)
	}
	buildTime := time.Since(start)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	qStart := time.Now()
	totalResults := 0
	for i := 0; i < numQueries; i++ {
		centerLon := r.Float64()*360 - 180
		centerLat := r.Float64()*180 - 90
		size := r.Float64()*1.9 + 0.1
		q, err := geo.NewRectangle(centerLon-size/2, centerLon+size/2, clampLat(centerLat-size/2), clampLat(centerLat+size/2))
		if err != nil {
			continue
		}
		totalResults += len(tree.Query(q))
		if i%100 == 0 {
			program.Send(progressMsg(float64(i) / float64(numQueries)))
		}
	}
	elapsed := time.Since(qStart)

	program.Send(stageCompleteMsg{
		stage: stageQuad,
		stats: benchmarkResult{
			totalQueries:  int64(numQueries),
			buildTime:     buildTime,
			totalTime:     elapsed,
			totalResults:  int64(totalResults),
			queriesPerSec: float64(numQueries) / elapsed.Seconds(),
		},
	})
}

func clampLat(lat float64) float64 {
	if lat < -90 {
		return -90
	}
	if lat > 90 {
		return 90
	}
	return lat
}

func runOctDemo() {
	numPoints := 100000
	numQueries := 1000

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)
	boundary, err := geo.NewSpaceTimeRectangle(-180, 180, -90, 90, start, end)
	if err != nil {
		program.Send(messageMsg(fmt.Sprintf("boundary error: %v", err)))
		return
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	buildStart := time.Now()
	tree := octtree.New[int](boundary, 8)
	for i := 0; i < numPoints; i++ {
		lon, lat := randomPoint(r)
		when := start.Add(time.Duration(r.Int63n(int64(end.Sub(start)))))
		rec, err := geo.NewSpaceTimeRecord(lon, lat, when, "", i)
		if err != nil {
			continue
		}
		tree.Insert(rec)
	}
	buildTime := time.Since(buildStart)

	qStart := time.Now()
	totalResults := 0
	for i := 0; i < numQueries; i++ {
		lon, lat := randomPoint(r)
		when := start.Add(time.Duration(r.Int63n(int64(end.Sub(start)))))
		query, err := geo.NewSpaceTimeRecord(lon, lat, when, "", 0)
		if err != nil {
			continue
		}
		totalResults += len(tree.NearbyPoints(query, 50, 12*time.Hour, false))
		if i%100 == 0 {
			program.Send(progressMsg(float64(i) / float64(numQueries)))
		}
	}
	elapsed := time.Since(qStart)

	program.Send(stageCompleteMsg{
		stage: stageOct,
		stats: benchmarkResult{
			totalQueries:  int64(numQueries),
			buildTime:     buildTime,
			totalTime:     elapsed,
			totalResults:  int64(totalResults),
			queriesPerSec: float64(numQueries) / elapsed.Seconds(),
		},
	})
}

func runKDDemo() {
	numPoints := 200000
	numQueries := 1000

	points := generateRandomPoints(numPoints)

	buildStart := time.Now()
	tree := kdtree.Build(points)
	buildTime := time.Since(buildStart)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	qStart := time.Now()
	var totalDist float64
	for i := 0; i < numQueries; i++ {
		lon, lat := randomPoint(r)
		_, dist := tree.Query(lon, lat)
		totalDist += dist
		if i%100 == 0 {
			program.Send(progressMsg(float64(i) / float64(numQueries)))
		}
	}
	elapsed := time.Since(qStart)

	program.Send(messageMsg(fmt.Sprintf("average nearest-neighbour distance: %.2f km", totalDist/float64(numQueries))))
	program.Send(stageCompleteMsg{
		stage: stageKD,
		stats: benchmarkResult{
			totalQueries:  int64(numQueries),
			buildTime:     buildTime,
			totalTime:     elapsed,
			totalResults:  int64(numQueries),
			queriesPerSec: float64(numQueries) / elapsed.Seconds(),
		},
	})
}

func main() {
	program = tea.NewProgram(initialModel())
	if err := program.Start(); err != nil {
		log.Fatal(err)
	}
}
