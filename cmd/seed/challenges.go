package main

import (
	"time"

	"github.com/shettytas/fitquest-web/internal/models"
)

type seedChallenge struct {
	Title        string
	Description  string
	Unit         models.Unit
	TargetPerDay float64
	Days         int
}

var seedChallenges = []seedChallenge{
	{
		Title:        "10K Steps Daily Challenge",
		Description:  "Walk 10,000 steps every day for 30 days. Perfect for beginners and those looking to increase daily activity. Track your steps and stay active!",
		Unit:         models.UnitSteps,
		TargetPerDay: 10000,
		Days:         30,
	},
	{
		Title:        "3-4L Water Drinking Challenge",
		Description:  "Drink 3-4 liters of water every day for 30 days. Stay hydrated, improve energy levels, and boost your overall health!",
		Unit:         models.UnitWater,
		TargetPerDay: 4,
		Days:         30,
	},
	{
		Title:        "30-Day Yoga Journey",
		Description:  "Complete 30 minutes of yoga practice daily. Improve flexibility, strength, and mindfulness.",
		Unit:         models.UnitMinutes,
		TargetPerDay: 30,
		Days:         30,
	},
	{
		Title:        "Hydration Hero Challenge",
		Description:  "Drink 8 glasses of water (2 liters) every day. Stay hydrated and feel the difference!",
		Unit:         models.UnitWater,
		TargetPerDay: 8,
		Days:         21,
	},
	{
		Title:        "Running 5K Challenge",
		Description:  "Run 5 kilometers every day. Build endurance and cardiovascular health.",
		Unit:         models.UnitKM,
		TargetPerDay: 5,
		Days:         14,
	},
	{
		Title:        "Cycling Adventure",
		Description:  "Cycle 20 kilometers daily. Explore your neighborhood and build leg strength.",
		Unit:         models.UnitKM,
		TargetPerDay: 20,
		Days:         21,
	},
	{
		Title:        "Strength Training 100",
		Description:  "Complete 100 push-ups, sit-ups, and squats daily. Build muscle and core strength.",
		Unit:         models.UnitReps,
		TargetPerDay: 100,
		Days:         30,
	},
	{
		Title:        "Meditation Mastery",
		Description:  "Meditate for 20 minutes every day. Improve mental clarity and reduce stress.",
		Unit:         models.UnitMinutes,
		TargetPerDay: 20,
		Days:         28,
	},
	{
		Title:        "15K Steps Power Walk",
		Description:  "Amp up your step game with 15,000 steps daily. For those ready to take it to the next level.",
		Unit:         models.UnitSteps,
		TargetPerDay: 15000,
		Days:         21,
	},
	{
		Title:        "Morning Run Club",
		Description:  "Start your day with a 3km run. Energize your mornings and boost productivity.",
		Unit:         models.UnitKM,
		TargetPerDay: 3,
		Days:         30,
	},
	{
		Title:        "Plank Challenge",
		Description:  "Hold a plank for 5 minutes total per day. Strengthen your core and improve posture.",
		Unit:         models.UnitMinutes,
		TargetPerDay: 5,
		Days:         14,
	},
	{
		Title:        "Healthy Meal Prep",
		Description:  "Prepare and eat 3 healthy meals every day. Fuel your body with nutritious food.",
		Unit:         models.UnitMeal,
		TargetPerDay: 3,
		Days:         7,
	},
	{
		Title:        "Cardio Blast",
		Description:  "Complete 45 minutes of cardio exercises daily. Burn calories and improve heart health.",
		Unit:         models.UnitMinutes,
		TargetPerDay: 45,
		Days:         21,
	},
	{
		Title:        "Flexibility Flow",
		Description:  "Do 30 minutes of stretching exercises daily. Improve flexibility and prevent injuries.",
		Unit:         models.UnitMinutes,
		TargetPerDay: 30,
		Days:         30,
	},
	{
		Title:        "Evening Walk Routine",
		Description:  "Take a 2km walk every evening. Unwind after a long day and get your steps in.",
		Unit:         models.UnitKM,
		TargetPerDay: 2,
		Days:         14,
	},
	{
		Title:        "HIIT Workout Challenge",
		Description:  "Complete 20 minutes of High-Intensity Interval Training daily. Maximize results in minimal time.",
		Unit:         models.UnitMinutes,
		TargetPerDay: 20,
		Days:         14,
	},
}

func (s seedChallenge) window(now time.Time) (string, string) {
	start := now.UTC()
	end := start.Add(time.Duration(s.Days) * 24 * time.Hour)
	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}
