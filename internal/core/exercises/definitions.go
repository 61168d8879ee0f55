package exercises

import (
	"time"

	"github.com/neilberkman/breatheless/internal/core/models"
)

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func pulseStage() Stage {
	return Stage{
		Name:         "Pulse",
		ShortName:    "p",
		Instructions: "Find your pulse in your neck or wrist. Count the number of heartbeats during the timer.",
		Duration:     seconds(15),
		Logged:       true,
	}
}

func controlPauseStage() Stage {
	return Stage{
		Name:      "Control Pause",
		ShortName: "cp",
		Instructions: "After a normal inhale and exhale, hold your breath and pinch your nose shut. " +
			"Release the hold at the first sign of discomfort.",
		Logged: true,
	}
}

func finishedStage(msg string) Stage {
	return Stage{Name: "Finished", ShortName: "finished", Instructions: msg}
}

func classical() Exercise {
	vsb := Stage{
		Name:      "Very Shallow Breathing",
		ShortName: "vsb",
		Instructions: "Use shallow belly breathing to maintain gentle air hunger. " +
			"Adjust the depth of breath while keeping your belly relaxed.",
		Duration:  seconds(180),
		AutoStart: true,
	}
	suppress := func(d int) Stage {
		return Stage{
			Name:         "Suppress",
			ShortName:    "suppress",
			Instructions: "Strongly suppress the urge to take deep breaths by using very rapid and shallow breaths.",
			Duration:     seconds(d),
			AutoStart:    true,
		}
	}
	recovery := func(d int) Stage {
		return Stage{
			Name:         "Recover",
			ShortName:    "recover",
			Instructions: "Allow your body to breathe naturally and let the sense of air hunger fade.",
			Duration:     seconds(d),
			AutoStart:    true,
		}
	}
	maxPause := func(n, effort, how string) Stage {
		return Stage{
			Name:         "Maximum Pause",
			ShortName:    "mp " + n,
			Instructions: effort + ": after a normal exhale, pinch your nose and hold your breath. " + how,
			Logged:       true,
		}
	}

	return Exercise{
		Type:        models.Classical,
		Name:        "Classical Buteyko",
		ShortName:   "Classical",
		Description: "The full Buteyko Maximum Pause exercise with three breath holds of increasing intensity.",
		Layout: []Stage{
			{
				Name:      "Classical Buteyko Exercise",
				ShortName: "start",
				Instructions: "Perform this exercise four times a day: before breakfast, lunch, dinner and bed. " +
					"Do not practice for two hours after a meal.",
			},
			pulseStage(),
			controlPauseStage(),
			vsb,
			recovery(30),
			maxPause("1", "Light effort", "Hold as long as you can while remaining relaxed and still."),
			suppress(10),
			vsb,
			recovery(30),
			maxPause("2", "Medium effort", "Use rocking and twisting to help extend the breath hold."),
			suppress(20),
			vsb,
			recovery(30),
			maxPause("3", "Full effort", "Add walking to help extend the breath hold."),
			suppress(30),
			vsb,
			recovery(60),
			controlPauseStage(),
			pulseStage(),
			finishedStage("You have accumulated CO2, congratulations!"),
		},
		// p1, cp1, mp1, mp2, mp3, cp2, p2
		MapLog: func(log []float64, date time.Time) models.Session {
			s := baseSession(models.Classical, date)
			s.Pulse1 = at(log, 0)
			s.ControlPause1 = at(log, 1)
			s.MaxPause1 = at(log, 2)
			s.MaxPause2 = at(log, 3)
			s.MaxPause3 = at(log, 4)
			s.ControlPause2 = at(log, 5)
			s.Pulse2 = at(log, 6)
			return s
		},
	}
}

func diminished() Exercise {
	relax := func(msg string) Stage {
		return Stage{Name: "Relax", ShortName: "relax", Instructions: msg, Duration: seconds(180), AutoStart: true}
	}
	breathing := Stage{
		Name:         "Diminished Breathing",
		ShortName:    "db",
		Instructions: "Practice reduced breathing by taking smaller, gentler breaths. Maintain a mild air hunger throughout.",
		Duration:     seconds(300),
		AutoStart:    true,
	}

	return Exercise{
		Type:        models.Diminished,
		Name:        "Diminished Breathing",
		ShortName:   "Diminished",
		Description: "A gentler variation focusing on reduced breathing without maximum pauses.",
		Layout: []Stage{
			{
				Name:      "Diminished Breathing Exercise",
				ShortName: "start",
				Instructions: "A gentler variation of the Classical Buteyko exercise, " +
					"suitable for those with lower control pauses.",
			},
			relax("Find a comfortable position and allow your body to relax."),
			pulseStage(),
			controlPauseStage(),
			breathing,
			controlPauseStage(),
			breathing,
			relax("Allow your breathing to return to normal. Rest and observe how you feel."),
			pulseStage(),
			controlPauseStage(),
			finishedStage("Well done! You have completed the Diminished Breathing exercise."),
		},
		// p1, cp1, middle cp, p2, cp2; the middle control pause is kept in MaxPause1
		MapLog: func(log []float64, date time.Time) models.Session {
			s := baseSession(models.Diminished, date)
			s.Pulse1 = at(log, 0)
			s.ControlPause1 = at(log, 1)
			s.MaxPause1 = at(log, 2)
			s.Pulse2 = at(log, 3)
			s.ControlPause2 = at(log, 4)
			return s
		},
	}
}

func morningControlPause() Exercise {
	return Exercise{
		Type:        models.MCP,
		Name:        "Morning Control Pause",
		ShortName:   "MCP",
		Description: "Measure your Control Pause first thing in the morning to track your baseline progress.",
		Layout: []Stage{
			{
				Name:      "Morning Control Pause",
				ShortName: "start",
				Instructions: "Measure your Control Pause immediately after waking, " +
					"before getting out of bed, moving around, or talking.",
			},
			controlPauseStage(),
			finishedStage("Your morning baseline has been recorded."),
		},
		MapLog: func(log []float64, date time.Time) models.Session {
			s := baseSession(models.MCP, date)
			s.ControlPause1 = at(log, 0)
			return s
		},
	}
}
