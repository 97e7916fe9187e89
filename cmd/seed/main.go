// Command seed imports Project and Issue collections into the database from
// a JSON file or URL, and can bootstrap an admin account. With -reset it
// truncates the data tables first.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/aivanovs/issuetracker/internal/dbx"
	"github.com/aivanovs/issuetracker/internal/flagx"
	"github.com/aivanovs/issuetracker/internal/server/auth"
	"github.com/aivanovs/issuetracker/internal/server/config"
	"github.com/aivanovs/issuetracker/internal/server/models"
	"github.com/aivanovs/issuetracker/internal/server/repositories/repomanager"
	"github.com/aivanovs/issuetracker/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type seedProject struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type seedIssue struct {
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate"`
	Done      bool   `json:"done"`
	ProjectID string `json:"projectId"`
}

type seedFile struct {
	Projects []seedProject `json:"projects"`
	Issues   []seedIssue   `json:"issues"`
}

func parseSeed(r io.Reader) (*seedFile, error) {
	var s seedFile
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("invalid seed json: %w", err)
	}
	for i, p := range s.Projects {
		if p.Name == "" {
			return nil, fmt.Errorf("project %d: name required", i)
		}
	}
	for i, iss := range s.Issues {
		if iss.Title == "" || iss.ProjectID == "" {
			return nil, fmt.Errorf("issue %d: title and projectId required", i)
		}
		if iss.Priority == "" {
			s.Issues[i].Priority = models.PriorityMedium
		}
	}
	return &s, nil
}

func openSeed(path, url string) (io.ReadCloser, error) {
	switch {
	case path != "":
		return os.Open(path)
	case url != "":
		resp, err := http.Get(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching seed: unexpected status %s", resp.Status)
		}
		return resp.Body, nil
	default:
		return nil, errors.New("either -f or -u is required")
	}
}

func truncateAll(ctx context.Context, db *sql.DB) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `TRUNCATE attachments, issues, projects, users`)
		return err
	})
}

func importSeed(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, seed *seedFile) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		projectRepo := rm.Projects(tx)
		issueRepo := rm.Issues(tx)

		// Remember mapping from seed-file project ids to generated ids.
		ids := make(map[string]string, len(seed.Projects))
		for _, p := range seed.Projects {
			project := &models.Project{ID: uuid.NewString(), Name: p.Name, Active: true}
			if p.Active != nil {
				project.Active = *p.Active
			}
			if _, err := projectRepo.Create(ctx, project); err != nil {
				return fmt.Errorf("importing project %q: %w", p.Name, err)
			}
			if p.ID != "" {
				ids[p.ID] = project.ID
			}
		}

		for _, i := range seed.Issues {
			projectID, ok := ids[i.ProjectID]
			if !ok {
				return fmt.Errorf("issue %q references unknown project %q", i.Title, i.ProjectID)
			}
			issue := &models.Issue{
				ID:        uuid.NewString(),
				Title:     i.Title,
				Priority:  i.Priority,
				DueDate:   i.DueDate,
				Done:      i.Done,
				ProjectID: projectID,
			}
			if _, err := issueRepo.Create(ctx, issue); err != nil {
				return fmt.Errorf("importing issue %q: %w", i.Title, err)
			}
		}
		return nil
	})
}

func bootstrapAdmin(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config, email string) error {
	fmt.Print("Enter admin password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(string(password), cfg.BcryptCost)
	shared.WipeByteArray(password)
	if err != nil {
		return err
	}

	repo := rm.Users(db)
	_, err = repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	return err
}

// parseSeedFlags reads only the seed command's own flags, leaving the server
// config flags (-a, -d, -s, ...) to config.LoadConfig.
func parseSeedFlags() (filePath, seedURL, adminEmail *string, reset *bool) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-url", "-reset", "-admin"})

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	filePath = fs.String("f", "", "path to seed JSON file")
	seedURL = fs.String("url", "", "URL of seed JSON")
	reset = fs.Bool("reset", false, "truncate data tables before import")
	adminEmail = fs.String("admin", "", "bootstrap an admin account with this email")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("flag error: %v", err)
	}
	return filePath, seedURL, adminEmail, reset
}

func main() {
	filePath, seedURL, adminEmail, reset := parseSeedFlags()

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		log.Fatalf("repository manager init error: %v", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	if *reset {
		if err := truncateAll(ctx, db); err != nil {
			log.Fatalf("reset error: %v", err)
		}
		log.Println("data tables truncated")
	}

	if *filePath != "" || *seedURL != "" {
		src, err := openSeed(*filePath, *seedURL)
		if err != nil {
			log.Fatalf("opening seed: %v", err)
		}
		seed, err := parseSeed(src)
		src.Close()
		if err != nil {
			log.Fatalf("parsing seed: %v", err)
		}
		if err := importSeed(ctx, db, rm, seed); err != nil {
			log.Fatalf("import error: %v", err)
		}
		log.Printf("imported %d projects, %d issues", len(seed.Projects), len(seed.Issues))
	}

	if *adminEmail != "" {
		if err := bootstrapAdmin(ctx, db, rm, cfg, *adminEmail); err != nil {
			log.Fatalf("admin bootstrap error: %v", err)
		}
		log.Printf("admin %s created", *adminEmail)
	}
}
