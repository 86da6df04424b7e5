package main

import (
	"fmt"

	"github.com/spf13/cobra"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/listenupapp/listenup-shelf/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	params := search.DefaultSearchParams()
	var types []string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search books, podcasts and episodes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				params.Query = args[0]
			}
			for _, t := range types {
				params.Types = append(params.Types, search.DocType(t))
			}
			params.Highlight = false

			return ctx.withServices(func(s *services) error {
				if s.search == nil {
					return domainerrors.Validation("search is disabled")
				}
				result, err := s.search.Search(cmd.Context(), params)
				if err != nil {
					return err
				}

				if ctx.flags.json {
					return writeJSON(cmd, result)
				}
				if len(result.Hits) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matches")
					return nil
				}

				rows := make([][]string, 0, len(result.Hits))
				for _, hit := range result.Hits {
					by := hit.Author
					if hit.Type == search.DocTypeEpisode {
						by = hit.ShowName
					}
					rows = append(rows, []string{
						string(hit.Type),
						hit.ItemID,
						hit.Name,
						orDash(by),
						formatSeconds(float64(hit.Duration) / 1000),
						yesNo(hit.Local),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Type", "Item", "Title", "By", "Duration", "Local"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d matches\n", len(result.Hits), result.Total)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&types, "type", nil, "Document types: book, podcast, episode")
	f.StringVar(&params.LibraryID, "library", "", "Only this library id")
	f.StringSliceVar(&params.Genres, "genre", nil, "Genre slugs (any)")
	f.StringSliceVar(&params.Tags, "tag", nil, "Tag slugs (any)")
	f.BoolVar(&params.LocalOnly, "local", false, "Only results with audio on this device")
	f.StringVar(&params.SortBy, "sort", search.SortRelevance, "Sort by relevance, title, recent or duration")
	f.StringVar(&params.SortOrder, "order", "desc", "Sort order: asc or desc")
	f.IntVar(&params.Limit, "limit", params.Limit, "Maximum results")
	f.IntVar(&params.Offset, "offset", 0, "Results to skip")
	f.BoolVar(&params.IncludeFacets, "facets", false, "Include facet counts (JSON output)")
	return cmd
}
