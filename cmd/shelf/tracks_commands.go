package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/listenupapp/listenup-shelf/internal/media"
	"github.com/listenupapp/listenup-shelf/internal/service"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks <item-id>",
		Short: "List an item's playable tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				item, err := s.library.GetItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printTracks(cmd, ctx, item.Media.AudioTracks())
			})
		},
	}
}

func printTracks(cmd *cobra.Command, ctx *commandContext, tracks []media.AudioTrack) error {
	if ctx.flags.json {
		return writeJSON(cmd, tracks)
	}
	if len(tracks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tracks")
		return nil
	}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		localID, _ := t.LocalID()
		rows = append(rows, []string{
			strconv.Itoa(t.Index),
			formatSeconds(t.StartOffset),
			formatSeconds(t.Duration),
			t.Title,
			orDash(localID),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Start", "Duration", "Title", "Local File"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <item-id>",
		Short: "List a book's chapters, or one chapter per track when it has none",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				item, err := s.library.GetItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				b, ok := item.Book()
				if !ok {
					return domainerrors.Validation(fmt.Sprintf("%s is a %s; only books have chapters", item.ID, item.MediaType))
				}

				chapters := b.DerivedChapters()
				if ctx.flags.json {
					return writeJSON(cmd, chapters)
				}
				if len(chapters) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No chapters")
					return nil
				}

				rows := make([][]string, 0, len(chapters))
				for _, c := range chapters {
					rows = append(rows, []string{
						strconv.Itoa(c.ID),
						formatSeconds(c.Start),
						formatSeconds(c.End),
						formatSeconds(c.Duration()),
						deref(c.Title),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Start", "End", "Length", "Title"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	var notes bool

	cmd := &cobra.Command{
		Use:   "episodes <item-id>",
		Short: "List a podcast's episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				item, err := s.library.GetItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				p, ok := item.Podcast()
				if !ok {
					return domainerrors.Validation(fmt.Sprintf("%s is a %s; only podcasts have episodes", item.ID, item.MediaType))
				}

				if ctx.flags.json {
					return writeJSON(cmd, p.Episodes)
				}
				if len(p.Episodes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No episodes")
					return nil
				}

				out := cmd.OutOrStdout()
				if notes {
					for _, ep := range p.Episodes {
						fmt.Fprintf(out, "## %s\n\n", ep.DisplayTitle())
						if md := ep.DescriptionMarkdown(); md != "" {
							fmt.Fprintf(out, "%s\n\n", md)
						}
					}
					return nil
				}

				rows := make([][]string, 0, len(p.Episodes))
				for _, ep := range p.Episodes {
					duration := "-"
					if ep.AudioTrack != nil {
						duration = formatSeconds(ep.AudioTrack.Duration)
					}
					localID, _ := ep.LocalFileID()
					rows = append(rows, []string{
						strconv.Itoa(ep.Index),
						ep.ID,
						ep.DisplayTitle(),
						duration,
						orDash(localID),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "ID", "Title", "Duration", "Local File"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&notes, "notes", false, "Print show notes as Markdown instead of a table")
	return cmd
}

func newTrackCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Reconcile an item's tracks with files on this device",
	}
	cmd.AddCommand(newTrackAddCommand(ctx))
	cmd.AddCommand(newTrackRemoveCommand(ctx))
	cmd.AddCommand(newTrackSyncCommand(ctx))
	return cmd
}

func newTrackAddCommand(ctx *commandContext) *cobra.Command {
	var file service.LocalFile

	cmd := &cobra.Command{
		Use:   "add <item-id> <path>",
		Short: "Add a local audio file as a track or episode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file.Duration < 0 {
				return domainerrors.Validation("--duration must not be negative")
			}
			file.Path = args[1]
			return ctx.withServices(func(s *services) error {
				item, err := s.library.AddLocalTrack(cmd.Context(), args[0], file)
				if err != nil {
					return err
				}
				return printTracks(cmd, ctx, item.Media.AudioTracks())
			})
		},
	}

	cmd.Flags().StringVar(&file.ID, "id", "", "Local file id (generated when empty)")
	cmd.Flags().Float64Var(&file.Duration, "duration", 0, "Duration in seconds")
	cmd.Flags().StringVar(&file.Title, "title", "", "Track title (defaults to the file name)")
	cmd.Flags().StringVar(&file.MimeType, "mime", "audio/mpeg", "MIME type")
	return cmd
}

func newTrackRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id> <local-file-id>",
		Short: "Remove whatever the local file backs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				item, err := s.library.RemoveLocalTrack(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printTracks(cmd, ctx, item.Media.AudioTracks())
			})
		},
	}
}

func newTrackSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <item-id> <tracks.json>",
		Short: "Replace the local tracks with a JSON array of tracks (use - for stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			var tracks []media.AudioTrack
			if err := json.Unmarshal(data, &tracks); err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeDecode, "decode tracks")
			}

			return ctx.withServices(func(s *services) error {
				item, err := s.library.SyncLocalTracks(cmd.Context(), args[0], tracks)
				if err != nil {
					return err
				}
				return printTracks(cmd, ctx, item.Media.AudioTracks())
			})
		},
	}
}
