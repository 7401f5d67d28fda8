package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
)

// Simplified config loading for the script
func loadConfig() string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}
	return dbName
}

type seedPlayer struct {
	username string
	name     string
	role     string
	tier     string
}

func main() {
	log.Info("Starting database seeder...")
	dbName := loadConfig()

	db, err := sql.Open("sqlite3", dbName)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}

	log.Info("Successfully connected to the database.")

	seedPlayers := []seedPlayer{
		{"anna", "Anna Larsen", "admin", "A"},
		{"bo", "Bo Mikkelsen", "organizer", "P+"},
		{"clara", "Clara Friis", "player", "P"},
		{"dennis", "Dennis Holm", "player", "N"},
		{"emma", "Emma Dahl", "player", "S"},
		{"frederik", "Frederik Juhl", "player", "P-"},
		{"gry", "Gry Sonne", "player", "C"},
		{"henrik", "Henrik Vang", "player", "S-"},
	}

	now := time.Now().Unix()
	playerIDs := make([]int64, 0, len(seedPlayers))
	for _, p := range seedPlayers {
		res, err := db.Exec(`
			INSERT INTO players (username, name, role, skill_tier, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(username) DO UPDATE SET updated_at = excluded.updated_at
		`, p.username, p.name, p.role, p.tier, now, now)
		if err != nil {
			log.Fatalf("Failed to insert seed player %s: %s", p.username, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			log.Fatalf("Failed to read player id: %s", err)
		}
		if _, err := db.Exec(`
			INSERT OR IGNORE INTO player_stats (player_id, updated_at) VALUES (?, ?)
		`, id, now); err != nil {
			log.Fatalf("Failed to insert stats row for %s: %s", p.username, err)
		}
		playerIDs = append(playerIDs, id)
	}
	log.Info("Ensured seed players exist.", "count", len(playerIDs))

	const batchSize = 100
	const numMatches = 500

	log.Info("Preparing to insert completed matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	results := []string{"team1", "team2", "draw"}
	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*9)

	for i := 0; i < numMatches; i++ {
		perm := rand.Perm(len(playerIDs))
		team1 := []int64{playerIDs[perm[0]], playerIDs[perm[1]]}
		team2 := []int64{playerIDs[perm[2]], playerIDs[perm[3]]}
		team1JSON, _ := json.Marshal(team1)
		team2JSON, _ := json.Marshal(team2)

		result := results[rand.Intn(len(results))]
		scoresJSON, _ := json.Marshal(scoresFor(result))

		started := time.Now().Add(-time.Duration(rand.Intn(180*24)) * time.Hour)
		ended := started.Add(time.Duration(20+rand.Intn(30)) * time.Minute)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			fmt.Sprintf("Court %d", 1+rand.Intn(4)),
			string(team1JSON),
			string(team2JSON),
			string(scoresJSON),
			result,
			started.Unix(),
			ended.Unix(),
			started.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, court, team1_json, team2_json, scores_json, result,
					started_at, ended_at, created_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*9)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted completed matches.", "duration", duration)
}

// scoresFor fabricates a plausible best-of-three score line for the result.
func scoresFor(result string) []map[string]int {
	switch result {
	case "team1":
		return []map[string]int{
			{"game": 1, "team1_score": 21, "team2_score": 15},
			{"game": 2, "team1_score": 21, "team2_score": 18},
		}
	case "team2":
		return []map[string]int{
			{"game": 1, "team1_score": 19, "team2_score": 21},
			{"game": 2, "team1_score": 21, "team2_score": 16},
			{"game": 3, "team1_score": 17, "team2_score": 21},
		}
	default:
		return []map[string]int{
			{"game": 1, "team1_score": 21, "team2_score": 23},
			{"game": 2, "team1_score": 21, "team2_score": 19},
		}
	}
}
