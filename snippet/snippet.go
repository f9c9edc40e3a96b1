package snippet

import (
	"context"
	"errors"
)

// NotFoundContent is shown in place of a snippet that does not exist.
const NotFoundContent = "Snippet not found."

// Snippet is a loaded snippet ready for display.
type Snippet struct {
	Name     string
	Title    string
	Content  string
	Language Language
	Found    bool
}

// Load reads the named snippet. A missing snippet is not an error: it
// loads as NotFoundContent in plain text.
func Load(ctx context.Context, repo Repository, name string) (Snippet, error) {
	content, err := repo.ReadByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return Snippet{Name: name, Title: name, Content: NotFoundContent, Language: PlainText}, nil
	}
	if err != nil {
		return Snippet{}, err
	}
	return Snippet{
		Name:     name,
		Title:    Title(name),
		Content:  content,
		Language: LanguageFor(name),
		Found:    true,
	}, nil
}

// Card summarizes a snippet for the index page.
type Card struct {
	Name     string
	Title    string
	Language Language
	Size     int64
}

// Stater is implemented by repositories that can report file sizes.
type Stater interface {
	Stat(ctx context.Context, name string) (Info, error)
}

// Cards lists every snippet as a card. Sizes are filled in when repo
// implements Stater.
func Cards(ctx context.Context, repo Repository) ([]Card, error) {
	names, err := repo.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	stater, _ := repo.(Stater)

	cards := make([]Card, 0, len(names))
	for _, name := range names {
		c := Card{Name: name, Title: Title(name), Language: LanguageFor(name)}
		if stater != nil {
			info, err := stater.Stat(ctx, name)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			c.Size = info.Size
		}
		cards = append(cards, c)
	}
	return cards, nil
}
