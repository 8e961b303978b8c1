// Example mot replays a MOTChallenge detection file through a BYTETracker
// session, writing the tracks out in the same format and optionally
// recording them to SQLite and rendering each frame to a PNG image.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/edgevision/go-bytetrack/mot"
	"github.com/edgevision/go-bytetrack/render"
	"github.com/edgevision/go-bytetrack/tracker"
	"github.com/edgevision/go-bytetrack/trackstore"
	"github.com/joho/godotenv"
	"gocv.io/x/gocv"
)

// Options holds the command line settings of a replay
type Options struct {
	ConfigFile string
	DetFile    string
	OutFile    string
	DBFile     string
	RenderDir  string
	Width      int
	Height     int
	LabelFile  string
	TrailSize  int
	Optimal    bool
	Kalman     bool
}

// Replay runs detections through a tracker session frame by frame
type Replay struct {
	opts   Options
	bt     *tracker.BYTETracker
	store  *trackstore.Store
	out    *mot.Writer
	trail  *tracker.Trail
	labels []string
}

// NewReplay creates the tracker session and opens the optional store
func NewReplay(cfg tracker.Config, opts Options, out io.Writer) (*Replay, error) {

	bt, err := tracker.NewBYTETracker(cfg)
	if err != nil {
		return nil, err
	}

	if opts.Optimal {
		bt.UseAssociator(tracker.NewOptimalAssociator())
	}

	if opts.Kalman {
		bt.UseMotionEstimator(tracker.NewKalmanFilter(1.0/20, 1.0/160))
	}

	r := &Replay{
		opts:  opts,
		bt:    bt,
		out:   mot.NewWriter(out),
		trail: tracker.NewTrail(opts.TrailSize),
	}

	if opts.LabelFile != "" {
		r.labels, err = render.LoadClassNames(opts.LabelFile)
		if err != nil {
			return nil, fmt.Errorf("error loading labels: %w", err)
		}
	}

	if opts.RenderDir != "" {
		if err := os.MkdirAll(opts.RenderDir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating render directory: %w", err)
		}
	}

	if opts.DBFile != "" {
		r.store, err = trackstore.Open(opts.DBFile)
		if err != nil {
			return nil, fmt.Errorf("error opening track store: %w", err)
		}
	}

	return r, nil
}

// Close releases the track store
func (r *Replay) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// Run tracks every frame, stopping early if the context is cancelled
func (r *Replay) Run(ctx context.Context, frames []mot.Frame) error {

	for _, frame := range frames {

		if err := ctx.Err(); err != nil {
			return err
		}

		stracks, err := r.bt.Update(frame.Objects)
		if err != nil {
			return fmt.Errorf("error tracking frame %d: %w", frame.ID, err)
		}

		results := tracker.STracksToResults(stracks)

		if err := r.out.WriteFrame(frame.ID, results); err != nil {
			return err
		}

		if r.store != nil {
			err := r.store.RecordFrame(ctx, r.bt.SessionID(), frame.ID, results)
			if err != nil {
				return err
			}
		}

		r.trail.Update(stracks)

		if r.opts.RenderDir != "" {
			if err := r.renderFrame(frame, stracks); err != nil {
				return err
			}
		}
	}

	return r.out.Flush()
}

// renderFrame draws the detections, tracks and trails of a frame onto a blank
// canvas and saves it as a PNG
func (r *Replay) renderFrame(frame mot.Frame, stracks []*tracker.STrack) error {

	img := render.NewCanvas(r.opts.Width, r.opts.Height)
	defer img.Close()

	font := render.DefaultFont()

	render.DetectionBoxes(&img, frame.Objects, r.labels, font, 1)
	render.TrackerBoxes(&img, stracks, r.labels, font, 2)
	render.Trail(&img, stracks, r.trail, render.DefaultTrailStyle())

	gocv.PutText(&img, fmt.Sprintf("Frame: %d, Tracks: %d", frame.ID, len(stracks)),
		image.Pt(4, 14), gocv.FontHersheyDuplex, 0.5, render.Yellow, 1)

	file := filepath.Join(r.opts.RenderDir, fmt.Sprintf("%06d.png", frame.ID))

	if !gocv.IMWrite(file, img) {
		return fmt.Errorf("error writing frame image %s", file)
	}

	return nil
}

// loadConfig builds the tracker config from the optional JSON file and
// environment overrides
func loadConfig(file string) (tracker.Config, error) {

	cfg := tracker.DefaultConfig()

	if file != "" {
		var err error

		cfg, err = tracker.LoadConfig(file)
		if err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	return cfg, cfg.Validate()
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	var opts Options

	flag.StringVar(&opts.ConfigFile, "c", "", "JSON tracker config file, defaults used if not given")
	flag.StringVar(&opts.DetFile, "d", "", "MOTChallenge format detection file to track")
	flag.StringVar(&opts.OutFile, "o", "", "Output file for tracks in MOTChallenge format, stdout if not given")
	flag.StringVar(&opts.DBFile, "db", "", "SQLite database file to record tracks to")
	flag.StringVar(&opts.RenderDir, "render", "", "Directory to render each frame to as a PNG image")
	flag.IntVar(&opts.Width, "w", 1920, "Width of rendered frames")
	flag.IntVar(&opts.Height, "h", 1080, "Height of rendered frames")
	flag.StringVar(&opts.LabelFile, "labels", "", "Text file containing class labels, one per line")
	flag.IntVar(&opts.TrailSize, "trail", 30, "Number of points in rendered track trails")
	flag.BoolVar(&opts.Optimal, "optimal", false, "Use minimum cost association instead of greedy")
	flag.BoolVar(&opts.Kalman, "kalman", false, "Use the Kalman filter instead of the alpha-beta filter")
	verbose := flag.Bool("v", false, "Log track lifecycle events")

	flag.Parse()

	if opts.DetFile == "" {
		log.Fatal("A detection file must be given with -d")
	}

	// a .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	var diag io.Writer

	if *verbose {
		diag = os.Stderr
	}

	tracker.SetLogWriters(os.Stderr, diag, nil)

	f, err := os.Open(opts.DetFile)
	if err != nil {
		log.Fatalf("Error opening detection file: %v", err)
	}

	frames, err := mot.ReadDetections(f)
	f.Close()

	if err != nil {
		log.Fatalf("Error reading detections: %v", err)
	}

	out := os.Stdout

	if opts.OutFile != "" {
		out, err = os.Create(opts.OutFile)
		if err != nil {
			log.Fatalf("Error creating output file: %v", err)
		}
		defer out.Close()
	}

	replay, err := NewReplay(cfg, opts, out)
	if err != nil {
		log.Fatalf("Error creating replay: %v", err)
	}
	defer replay.Close()

	if err := replay.Run(context.Background(), frames); err != nil {
		log.Fatalf("Error running replay: %v", err)
	}

	log.Printf("Tracked %d frames, session %s, %d track IDs issued",
		len(frames), replay.bt.SessionID(), replay.bt.LastTrackID())
}
