package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedNames = []string{
	"Adam", "Ben", "Chris", "Dan", "Eli", "Finn", "Gus", "Hugo", "Ivan", "Jack",
	"Amira", "Bea", "Cleo", "Dina", "Eva", "Fay", "Gia", "Hana", "Iris", "June",
}

// SeedTestData resets the database and populates it with demo profiles,
// likes, matches and opening messages.
//
// Behavior:
//  1. Clears messages, matches, likes and users.
//  2. Creates 20 users (10 male, 10 female); every 5th user seeks both.
//  3. Generates ~200 likes between compatible users; every 3rd like is made
//     mutual and gets its Match plus one opening message.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	if err := clearAll(db); err != nil {
		return err
	}
	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female) ---
	users := make([]User, 0, len(seedNames))
	for i, name := range seedNames {
		gender, seeking := GenderMale, GenderFemale
		if i >= 10 {
			gender, seeking = GenderFemale, GenderMale
		}
		if i%5 == 4 {
			seeking = SeekingBoth
		}
		bio := fmt.Sprintf("Hi, I'm %s.", name)
		users = append(users, User{Name: name, Gender: gender, Seeking: seeking, Bio: &bio})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users.", len(users))

	// --- Seed Likes (~200) ---
	counter, matches := 0, 0
	for _, actor := range users {
		for j := 0; j < 12; j++ { // each user likes ~12 others
			target := users[r.Intn(len(users))]
			if actor.ID == target.ID || !wants(actor, target) {
				continue
			}

			if err := db.Create(&Like{LikerID: actor.ID, LikedID: target.ID}).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			// guarantee a mutual like every 3rd pair
			if counter%3 == 0 {
				if err := db.Create(&Like{LikerID: target.ID, LikedID: actor.ID}).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal like: %w", err)
				}
				m := Match{User1ID: target.ID, User2ID: actor.ID, AllowBothFirstMove: true}
				res := db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "pair_key"}},
					DoNothing: true,
				}).Create(&m)
				if res.Error != nil {
					return fmt.Errorf("failed to seed match: %w", res.Error)
				}
				if res.RowsAffected == 1 {
					matches++
					opener := Message{MatchID: m.ID, SenderID: m.User1ID, Text: fmt.Sprintf("Hey %s!", actor.Name)}
					if err := db.Create(&opener).Error; err != nil {
						return fmt.Errorf("failed to seed message: %w", err)
					}
				}
			}

			counter++
		}
	}
	log.Printf("Seeded %d likes and %d matches.", counter, matches)

	return nil
}

// SeedMinimalTestData inserts the three-user scenario with fixed ids:
//   - alice (female, seeking male), bob (male, seeking female), carol (female, seeking both)
//   - alice → bob like, not yet reciprocated
//   - carol → bob like
func SeedMinimalTestData(db *gorm.DB) error {
	if err := clearAll(db); err != nil {
		return err
	}

	users := []User{
		{ID: "alice", Name: "Alice", Gender: GenderFemale, Seeking: GenderMale},
		{ID: "bob", Name: "Bob", Gender: GenderMale, Seeking: GenderFemale},
		{ID: "carol", Name: "Carol", Gender: GenderFemale, Seeking: SeekingBoth},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	likes := []Like{
		{LikerID: "alice", LikedID: "bob"},
		{LikerID: "carol", LikedID: "bob"},
	}
	return db.Create(&likes).Error
}

func clearAll(db *gorm.DB) error {
	for _, table := range []string{"messages", "matches", "likes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func wants(actor, target User) bool {
	return actor.Seeking == SeekingBoth || actor.Seeking == target.Gender
}
