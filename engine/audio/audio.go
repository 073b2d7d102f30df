package audio

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("audio")

const (
	// SampleRate is the playback rate of decoded tracks.
	SampleRate = 44100

	channelCount   = 2
	bytesPerSample = 2
	bytesPerSecond = SampleRate * channelCount * bytesPerSample
)

// ErrNotReady is returned by PlayQueued before the ready notification fired.
var ErrNotReady = errors.New("audio: playlist is not ready")

// Track is a playlist entry.
type Track struct {
	Name string
	Path string
}

// countingReader tracks how many bytes the device pulled. Reads happen on the device goroutine.
type countingReader struct {
	r    *bytes.Reader
	n    atomic.Int64
	done atomic.Bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	if err != nil {
		c.done.Store(true)
	}
	return n, err
}

type service struct {
	mu *sync.Mutex

	tracks  []Track
	pcm     [][]byte
	decode  Decoder
	out     Output
	openOut func() (Output, error)
	pool    worker.DynamicWorkerPool
	workers int

	queued     bool
	readyCh    chan struct{}
	readyFired bool
	onReady    []func()

	playing bool
	current int
	player  Player
	reader  *countingReader
}

// Service plays a playlist and reports the transport position.
//
// Decoding runs on a worker pool. The ready notification and track advance are delivered
// from Update, on the caller's goroutine.
type Service interface {
	// Queue starts decoding the playlist in the background. Calls after the first are ignored.
	Queue()

	// OnReady registers a handler that runs once, from Update, after the playlist is decoded
	// and the device is ready. Handlers registered after that run on the next Update.
	//
	// Parameters:
	//   - h: the handler
	OnReady(h func())

	// PlayQueued starts playback from the current track.
	//
	// Returns:
	//   - error: ErrNotReady before the ready notification
	PlayQueued() error

	// Update delivers pending notifications and advances to the next track when one ends.
	//
	// Parameters:
	//   - dt: the elapsed time since the previous update in milliseconds
	Update(dt float64)

	// CurrentTrackIndex returns the playlist index of the active track.
	CurrentTrackIndex() int

	// CurrentTime returns the playback position of the active track in seconds.
	CurrentTime() float64

	// Tracks returns the playlist.
	Tracks() []Track

	// Close stops playback.
	//
	// Returns:
	//   - error: error if the player fails to close
	Close() error
}

var _ Service = &service{}

// NewService creates a Service over the playlist. The audio device is opened lazily by Queue.
//
// Parameters:
//   - tracks: the playlist in order
//   - options: functional options for the service
//
// Returns:
//   - Service: the newly created service
func NewService(tracks []Track, options ...ServiceBuilderOption) Service {
	s := &service{
		mu:      &sync.Mutex{},
		tracks:  tracks,
		pcm:     make([][]byte, len(tracks)),
		decode:  DecodeFile,
		openOut: func() (Output, error) { return NewOtoOutput(SampleRate) },
		workers: 2,
		readyCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

func (s *service) Queue() {
	s.mu.Lock()
	if s.queued {
		s.mu.Unlock()
		return
	}
	s.queued = true
	if s.out == nil {
		out, err := s.openOut()
		if err != nil {
			logger.Errorf("%v; playback disabled", err)
			out = silentOutput{}
		}
		s.out = out
	}
	out := s.out
	s.mu.Unlock()

	var wg sync.WaitGroup
	for i, t := range s.tracks {
		wg.Add(1)
		idx, track := i, t
		s.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				start := time.Now()
				pcm, err := s.decode(track.Path, SampleRate)
				if err != nil {
					logger.Errorf("track %d %q: %v", idx, track.Name, err)
					return nil, err
				}
				s.mu.Lock()
				s.pcm[idx] = pcm
				s.mu.Unlock()
				logger.Infof("decoded track %d %q (%.1fs) in %s", idx, track.Name, float64(len(pcm))/bytesPerSecond, time.Since(start).Round(time.Millisecond))
				return nil, nil
			},
		})
	}

	go func() {
		wg.Wait()
		<-out.Ready()
		close(s.readyCh)
	}()
}

func (s *service) OnReady(h func()) {
	if h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReady = append(s.onReady, h)
}

func (s *service) PlayQueued() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready() {
		return ErrNotReady
	}
	if s.playing {
		return nil
	}
	s.startLocked(s.current)
	return nil
}

func (s *service) Update(dt float64) {
	s.mu.Lock()
	var handlers []func()
	if s.ready() && len(s.onReady) > 0 {
		handlers = s.onReady
		s.onReady = nil
		if !s.readyFired {
			s.readyFired = true
			logger.Debug("playlist ready")
		}
	}
	if s.playing && s.reader != nil && s.reader.done.Load() && !s.player.IsPlaying() {
		s.startLocked(s.current + 1)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

func (s *service) CurrentTrackIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *service) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader == nil || s.player == nil {
		return 0
	}
	played := s.reader.n.Load() - int64(s.player.BufferedSize())
	if played < 0 {
		played = 0
	}
	return float64(played) / bytesPerSecond
}

func (s *service) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	return s.closePlayerLocked()
}

func (s *service) ready() bool {
	select {
	case <-s.readyCh:
		return true
	default:
		return false
	}
}

// startLocked plays the first decoded track at or after index. Past the end of the playlist
// playback stops and the index stays on the last track.
func (s *service) startLocked(index int) {
	if err := s.closePlayerLocked(); err != nil {
		logger.Warningf("failed to close player: %v", err)
	}
	for ; index < len(s.tracks); index++ {
		if len(s.pcm[index]) == 0 {
			logger.Warningf("skipping track %d %q: nothing decoded", index, s.tracks[index].Name)
			continue
		}
		s.current = index
		s.reader = &countingReader{r: bytes.NewReader(s.pcm[index])}
		s.player = s.out.NewPlayer(s.reader)
		s.player.Play()
		s.playing = true
		logger.Infof("playing track %d %q", index, s.tracks[index].Name)
		return
	}
	s.playing = false
	logger.Info("playlist finished")
}

func (s *service) closePlayerLocked() error {
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	s.reader = nil
	return err
}

// silentOutput stands in for a missing audio device. Its players consume their source in
// real time without producing sound, so the transport clock still advances.
type silentOutput struct{}

func (silentOutput) NewPlayer(r io.Reader) Player {
	return &silentPlayer{r: r}
}

func (silentOutput) Ready() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type silentPlayer struct {
	r       io.Reader
	start   time.Time
	read    int64
	playing bool
	eof     bool
}

func (p *silentPlayer) Play() {
	p.start = time.Now()
	p.playing = true
}

// pump consumes the bytes a real device would have played by now.
func (p *silentPlayer) pump() {
	if !p.playing || p.eof {
		return
	}
	want := int64(time.Since(p.start).Seconds()*bytesPerSecond) &^ (channelCount*bytesPerSample - 1)
	if want <= p.read {
		return
	}
	n, err := io.CopyN(io.Discard, p.r, want-p.read)
	p.read += n
	if err != nil {
		p.eof = true
	}
}

func (p *silentPlayer) IsPlaying() bool {
	p.pump()
	return p.playing && !p.eof
}

func (p *silentPlayer) BufferedSize() int {
	p.pump()
	return 0
}

func (p *silentPlayer) Close() error {
	p.playing = false
	return nil
}
