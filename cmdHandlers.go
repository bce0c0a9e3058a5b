package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"

	"lyricsync/adminapi"
	"lyricsync/capture"
	"lyricsync/config"
	"lyricsync/liveaudio"
	"lyricsync/scanlib"
	"lyricsync/shazam"
	"lyricsync/store"
	"lyricsync/trackid"
	"lyricsync/wav"
)

var decoder = wav.Decoder{}

func openStore(cfg config.Config) (store.Store, error) {
	s, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := s.Init(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func index(cfg config.Config, audioPath string) {
	s, err := openStore(cfg)
	if err != nil {
		fmt.Printf("error opening store: %v\n", err)
		return
	}
	defer s.Close()

	id := trackid.From(audioPath)
	log.Printf("[index] fingerprinting %s (track_id=%s)...", audioPath, id)

	hashes, err := shazam.FingerprintFile(decoder, audioPath, cfg.Fingerprint)
	if err != nil {
		fmt.Printf("error fingerprinting %s: %v\n", audioPath, err)
		return
	}

	meta, _ := wav.GetMetadata(audioPath)
	title := meta.Title
	if title == "" {
		title = audioPath
	}

	ctx := context.Background()
	if err := s.UpsertTrack(ctx, id, map[string]any{
		"title":      title,
		"artist":     meta.Artist,
		"album":      meta.Album,
		"audio_file": audioPath,
	}); err != nil {
		fmt.Printf("error registering track: %v\n", err)
		return
	}

	rows := make([]store.HashRow, len(hashes))
	for i, h := range hashes {
		rows[i] = store.HashRow{Hash32: h.Value, TrackID: id, TFrame: h.TFrame}
	}
	if err := s.ReplaceHashes(ctx, id, rows); err != nil {
		fmt.Printf("error storing fingerprints: %v\n", err)
		return
	}

	fmt.Printf("indexed %q (%d fingerprints, track_id=%s)\n", title, len(hashes), id)
}

func scan(cfg config.Config, root string, force bool) {
	if root == "" {
		root = cfg.MusicRoot
	}

	tracks, err := scanlib.ScanRoot(root)
	if err != nil {
		fmt.Printf("error scanning %s: %v\n", root, err)
		return
	}
	if len(tracks) == 0 {
		fmt.Println("no tracks found")
		return
	}

	s, err := openStore(cfg)
	if err != nil {
		fmt.Printf("error opening store: %v\n", err)
		return
	}
	defer s.Close()

	indexed, failed := scanlib.RegisterAll(context.Background(), s, decoder, cfg.Fingerprint, tracks, force)
	fmt.Printf("\nscanned %d tracks: %d registered, %d failed\n", len(tracks), indexed, failed)
}

func erase(cfg config.Config, dbOnly bool) {
	s, err := openStore(cfg)
	if err != nil {
		fmt.Printf("error opening store: %v\n", err)
		return
	}
	defer s.Close()

	meta, err := s.AllTracksMeta(context.Background())
	if err != nil {
		fmt.Printf("error listing tracks: %v\n", err)
		return
	}
	for id := range meta {
		if err := s.ReplaceHashes(context.Background(), id, nil); err != nil {
			fmt.Printf("error clearing hashes for %s: %v\n", id, err)
		}
	}
	fmt.Println("fingerprint store cleared")

	if dbOnly {
		fmt.Println("erase complete")
		return
	}
	fmt.Println("pass 'all' is not yet wired to remove cached files; erase complete")
}

// listen runs a live matching session against the configured capture
// device and prints snapshot() to the terminal every second, colored the
// way a confident/unconfident match should read at a glance.
func listen(cfg config.Config) {
	s, err := openStore(cfg)
	if err != nil {
		fmt.Printf("error opening store: %v\n", err)
		return
	}
	defer s.Close()

	params := liveaudio.Params{
		SampleRate:        cfg.Audio.SampleRate,
		Channels:          cfg.Audio.Channels,
		BlockSeconds:      cfg.Audio.BlockSeconds,
		ListenSeconds:     cfg.Audio.ListenSeconds,
		MatchEverySeconds: cfg.Audio.MatchEverySeconds,
		MinConfidence:     cfg.Audio.MinConfidence,
		Device:            cfg.Audio.Device,
	}

	session, err := liveaudio.NewLiveSession(context.Background(), s, capture.PortAudioSource{}, cfg.Fingerprint, params)
	if err != nil {
		fmt.Printf("error building session: %v\n", err)
		return
	}
	if err := session.Start(); err != nil {
		fmt.Printf("error starting capture: %v\n", err)
		return
	}
	defer session.Stop()

	fmt.Println("listening... press Ctrl+C to stop")

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for {
		snap := session.Snapshot()
		switch {
		case snap.CaptureFailed:
			fmt.Println(red("capture failed: "), snap.CaptureErr)
			return
		case snap.TrackID == "":
			fmt.Println(yellow("listening, no match yet..."))
		default:
			title, _ := snap.Meta["title"].(string)
			fmt.Printf("%s %s (confidence=%d, t=%.1fs) %s\n",
				green("▶"), title, snap.Confidence, snap.TrackTime, snap.LyricsCurrent)
		}
		time.Sleep(1 * time.Second)
	}
}

func serve(cfg config.Config, port string) {
	s, err := openStore(cfg)
	if err != nil {
		fmt.Printf("error opening store: %v\n", err)
		return
	}
	defer s.Close()

	api := &adminapi.API{
		Store:      s,
		Decoder:    decoder,
		Cfg:        cfg.Fingerprint,
		CaptureSrc: capture.PortAudioSource{},
		SessionCfg: liveaudio.Params{
			SampleRate:        cfg.Audio.SampleRate,
			Channels:          cfg.Audio.Channels,
			BlockSeconds:      cfg.Audio.BlockSeconds,
			ListenSeconds:     cfg.Audio.ListenSeconds,
			MatchEverySeconds: cfg.Audio.MatchEverySeconds,
			MinConfidence:     cfg.Audio.MinConfidence,
			Device:            cfg.Audio.Device,
		},
	}

	log.Printf("starting admin server on port %s", port)
	if err := http.ListenAndServe(":"+port, api.Mux()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
