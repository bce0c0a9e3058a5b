package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"lyricsync/config"
	"lyricsync/utils"
)

const defaultConfigPath = ".lyricsync.yaml"

func main() {
	_ = utils.CreateFolder("tmp")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	_ = godotenv.Load()

	configPath := utils.GetEnv("LYRICSYNC_CONFIG", defaultConfigPath)

	switch os.Args[1] {
	case "index":
		if len(os.Args) < 3 {
			fmt.Println("usage: lyricsync index <path_to_audio_file>")
			os.Exit(1)
		}
		cfg := mustLoadConfig(configPath)
		index(cfg, os.Args[2])

	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("usage: lyricsync scan <music_root>")
			os.Exit(1)
		}
		scanCmd := flag.NewFlagSet("scan", flag.ExitOnError)
		force := scanCmd.Bool("force", false, "re-fingerprint tracks even if a cache file exists")
		scanCmd.Parse(os.Args[2:])
		cfg := mustLoadConfig(configPath)
		scan(cfg, scanCmd.Arg(0), *force)

	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		port := serveCmd.String("p", "5000", "port to use")
		serveCmd.Parse(os.Args[2:])
		cfg := mustLoadConfig(configPath)
		serve(cfg, *port)

	case "listen":
		cfg := mustLoadConfig(configPath)
		listen(cfg)

	case "erase":
		dbOnly := true
		if len(os.Args) > 2 && os.Args[2] == "all" {
			dbOnly = false
		}
		cfg := mustLoadConfig(configPath)
		erase(cfg, dbOnly)

	default:
		printUsage()
		os.Exit(1)
	}
}

func mustLoadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("failed to load config %q: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}

func printUsage() {
	fmt.Println("usage: lyricsync <command>")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  index <audio_file>     fingerprint and register a single track")
	fmt.Println("  scan  [-force] <dir>   scan a music library root and register every track")
	fmt.Println("  listen                 run a live matching session against the configured input device")
	fmt.Println("  serve [-p 5000]        start the admin HTTP server")
	fmt.Println("  erase [all]            clear the fingerprint store (cached files are not removed)")
}
