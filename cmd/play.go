package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zantaku/Zantaku-sub000/aniskip"
	"github.com/zantaku/Zantaku-sub000/color"
	"github.com/zantaku/Zantaku-sub000/history"
	"github.com/zantaku/Zantaku-sub000/icon"
	"github.com/zantaku/Zantaku-sub000/internal/cache"
	"github.com/zantaku/Zantaku-sub000/key"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/playback"
	"github.com/zantaku/Zantaku-sub000/player"
	"github.com/zantaku/Zantaku-sub000/progress"
	"github.com/zantaku/Zantaku-sub000/resolve"
	"github.com/zantaku/Zantaku-sub000/settings"
	"github.com/zantaku/Zantaku-sub000/style"
	"github.com/zantaku/Zantaku-sub000/subtitle"
	"github.com/zantaku/Zantaku-sub000/tui"
	"github.com/zantaku/Zantaku-sub000/where"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("resume", "r", false, "Resume from the last watched position")
	playCmd.Flags().Bool("headless", false, "Print subtitles to stdout instead of opening the terminal interface")

	playCmd.Flags().StringP("language", "l", "", "Preferred subtitle language")
	lo.Must0(viper.BindPFlag(key.SubtitlesLanguage, playCmd.Flags().Lookup("language")))

	playCmd.Flags().Bool("repeat", false, "Restart from the beginning when the media ends")
	lo.Must0(viper.BindPFlag(key.PlayerRepeat, playCmd.Flags().Lookup("repeat")))
}

var playCmd = &cobra.Command{
	Use:   "play [descriptor]",
	Short: "Play the media described by a descriptor file",
	Long: `Play the media described by a yaml descriptor file.
The descriptor names an already resolved stream, its subtitle tracks and its chapters.
Run "schema" to print its JSON schema.`,
	Example: "  zantaku play ./frieren-03.yaml --resume",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		descriptor, err := resolve.Load(args[0])
		handleErr(err)

		CheckDependencies(viper.GetString(key.PlayerEngine))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		headless, _ := cmd.Flags().GetBool("headless")
		resume, _ := cmd.Flags().GetBool("resume")
		handleErr(play(ctx, descriptor, playOptions{
			resume:   resume,
			headless: headless || !term.IsTerminal(int(os.Stdout.Fd())),
		}))
	},
}

type playOptions struct {
	resume   bool
	headless bool
}

func play(ctx context.Context, d *resolve.Descriptor, opts playOptions) error {
	engine, err := player.New(viper.GetString(key.PlayerEngine))
	if err != nil {
		return err
	}

	store := settings.NewStore(settings.NewViperBackend(where.Settings()), viper.GetDuration(key.SettingsDebounce))
	saved, _ := store.Load()
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("save settings: %s", err)
		}
	}()

	sink, closeSinks := progressSinks(ctx)
	defer closeSinks()

	reporter := progress.NewReporter(d.MediaID, d.Episode, sink,
		progress.WithBand(viper.GetFloat64(key.ProgressLowerBound), viper.GetFloat64(key.ProgressUpperBound)),
		progress.WithInterval(viper.GetDuration(key.ProgressInterval)),
		progress.WithTitle(d.DisplayTitle()),
	)

	messages := newRelay()
	host := playback.HostFunc(func(msg playback.Message) {
		persistSettings(store, msg)
		messages.Notify(msg)
	})

	fetcher := subtitle.NewFetcher(nil, d.Source.Headers)
	if viper.GetBool(key.SubtitlesCache) {
		disk := cache.New("")
		go disk.CollectGarbage()
		fetcher.WithCache(disk)
	}

	session := playback.NewSession(sessionConfig(d, saved, opts), playback.Deps{
		Engine:   engine,
		Loader:   fetcher,
		Progress: reporter,
		Host:     host,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go messages.run(ctx)

	done := make(chan error, 1)
	go func() {
		err := session.Run(ctx)
		done <- err
		messages.Notify(playback.ExitRequested{Reason: "session ended", Err: err})
	}()

	if viper.GetBool(key.Aniskip) && d.MalID > 0 && len(d.Chapters) == 0 {
		go attachSkipTimes(ctx, session, d.MalID, d.Episode)
	}

	var uiErr error
	if opts.headless {
		uiErr = runHeadless(ctx, messages.Messages(), session)
	} else {
		uiErr = tui.Run(&tui.Options{Controller: session, Messages: messages.Messages()})
	}

	cancel()
	runErr := <-done
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if errors.Is(uiErr, context.Canceled) {
		uiErr = nil
	}

	return errors.Join(uiErr, runErr)
}

func sessionConfig(d *resolve.Descriptor, saved settings.Settings, opts playOptions) playback.Config {
	tracks := d.Tracks()

	subtitleIndex := -1
	if viper.GetBool(key.SubtitlesEnabled) {
		subtitleIndex = saved.SubtitleTrack(tracks, viper.GetString(key.SubtitlesLanguage))
	}

	speed := saved.PlaybackSpeed
	if speed == settings.Default().PlaybackSpeed {
		speed = viper.GetFloat64(key.PlayerSpeed)
	}

	cfg := playback.Config{
		Source:        d.MediaSource(),
		Title:         d.DisplayTitle(),
		Tracks:        tracks,
		Chapters:      d.ChapterList(),
		SubtitleIndex: subtitleIndex,
		Speed:         speed,
		Repeat:        viper.GetBool(key.PlayerRepeat),
		AutoSkip:      viper.GetBool(key.Aniskip),
		LoadTimeout:   viper.GetDuration(key.PlayerLoadTimeout),
		MaxRetries:    viper.GetInt(key.PlayerMaxRetries),
		ScrubThrottle: viper.GetDuration(key.PlayerScrubThrottle),
	}

	if opts.resume {
		found, err := history.Lookup(d.MediaID, d.Episode)
		if err != nil {
			log.Warnf("history lookup: %s", err)
		}
		if record, ok := found.Get(); ok && record.Resumable() {
			cfg.ResumeAt = record.Position
		}
	}

	return cfg
}

// persistSettings saves the selections the user makes during playback.
func persistSettings(store *settings.Store, msg playback.Message) {
	switch msg := msg.(type) {
	case playback.SpeedChanged:
		store.Update(func(s *settings.Settings) {
			s.PlaybackSpeed = msg.Speed
		})
	case playback.TrackChanged:
		if !msg.Selected {
			return
		}
		store.Update(func(s *settings.Settings) {
			if msg.Index < 0 {
				s.SubtitlesEnabled = false
				return
			}
			s.SubtitlesEnabled = true
			s.SelectedSubtitleIndex = msg.Index
		})
	}
}

// progressSinks builds the configured sinks behind one asynchronous queue.
func progressSinks(ctx context.Context) (progress.Sink, func()) {
	var (
		sinks   progress.Multi
		closers []func()
	)

	if viper.GetBool(key.ProgressHistory) {
		sinks = append(sinks, progress.HistorySink{})
	}

	if url := viper.GetString(key.ProgressNatsURL); url != "" {
		natsSink, err := progress.NewNATSSink(url, viper.GetString(key.ProgressNatsSubject))
		if err != nil {
			log.Warnf("progress: %s", err)
		} else {
			sinks = append(sinks, natsSink)
			closers = append(closers, func() { _ = natsSink.Close() })
		}
	}

	if dsn := viper.GetString(key.ProgressPostgresDSN); dsn != "" {
		pgSink, err := progress.NewPostgresSink(ctx, dsn)
		if err != nil {
			log.Warnf("progress: %s", err)
		} else {
			sinks = append(sinks, pgSink)
			closers = append(closers, pgSink.Close)
		}
	}

	async := progress.NewAsync(sinks, 16)
	return async, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := async.Close(ctx); err != nil {
			log.Warnf("progress: pending reports dropped: %s", err)
		}
		for _, closer := range closers {
			closer()
		}
	}
}

// attachSkipTimes turns opening and ending times into chapters once the duration is known.
func attachSkipTimes(ctx context.Context, session *playback.Session, malID, episode int) {
	skip, err := aniskip.GetSkipTimes(ctx, malID, episode)
	if err != nil || skip == nil {
		return
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap := session.Snapshot()
		if snap == nil || snap.Position.Duration <= 0 {
			continue
		}

		chapters := skip.Chapters(snap.Position.Duration)
		if len(chapters) > 0 {
			session.Post(func(m *playback.Machine) { m.SetChapters(chapters) })
		}
		return
	}
}

// runHeadless prints state changes and subtitles until the media ends or an exit is
// requested. Fatal errors are retried until the retry budget is spent.
func runHeadless(ctx context.Context, messages <-chan playback.Message, ctl tui.Controller) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			switch msg := msg.(type) {
			case playback.SubtitleChanged:
				if msg.Text != "" {
					fmt.Println(msg.Text)
				}
			case playback.StateChanged:
				fmt.Println(style.Faint(fmt.Sprintf("[%s -> %s]", msg.From, msg.To)))
				if msg.To == playback.Ended {
					return nil
				}
			case playback.ChapterChanged:
				if msg.Index >= 0 {
					fmt.Println(style.Fg(color.Mauve)(icon.Get(icon.Chapter) + " " + msg.Chapter.Title))
				}
			case playback.ErrorOccurred:
				fmt.Println(style.Fg(color.Red)(icon.Get(icon.Fail) + " " + msg.Err.Error()))
				if snap := ctl.Snapshot(); snap != nil {
					log.Warnf("playback failed at %.1fs, retrying", snap.Position.CurrentTime)
				}
				ctl.Post(func(m *playback.Machine) {
					if err := m.Retry(); err != nil {
						log.Warnf("retry: %s", err)
					}
				})
			case playback.ExitRequested:
				return msg.Err
			}
		}
	}
}
