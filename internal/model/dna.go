package model

// DifficultyMix is the percentage split of question difficulties for a level.
type DifficultyMix struct {
	VeryEasy  int
	Easy      int
	Medium    int
	Hard      int
	VeryHard  int
	UltraHard int
}

// LevelDNA describes how an exam should be shaped for a position level.
type LevelDNA struct {
	Focus          string
	Topics         []string
	Difficulty     DifficultyMix
	TimeMultiplier float64
}

// LevelProfiles maps each position level to its generation DNA.
var LevelProfiles = map[PositionLevel]LevelDNA{
	LevelIntern: {
		Focus:          "Fundamental syntax, basic logic, and arithmetic",
		Topics:         []string{"Variables", "Simple Loops", "Basic Arithmetic", "Basic SQL"},
		Difficulty:     DifficultyMix{VeryEasy: 50, Easy: 40, Medium: 10},
		TimeMultiplier: 1.5,
	},
	LevelFresher: {
		Focus:          "DSA basics, coding accuracy, and quantitative aptitude",
		Topics:         []string{"Arrays", "Strings", "HashMaps", "Recursion", "Basic Sorting"},
		Difficulty:     DifficultyMix{VeryEasy: 10, Easy: 40, Medium: 40, Hard: 10},
		TimeMultiplier: 1.2,
	},
	LevelSDE1: {
		Focus:          "Algorithmic efficiency and problem solving",
		Topics:         []string{"Sliding Window", "Two Pointers", "Trees", "Graphs", "DP"},
		Difficulty:     DifficultyMix{Easy: 20, Medium: 50, Hard: 25, VeryHard: 5},
		TimeMultiplier: 1.0,
	},
	LevelSDE2: {
		Focus:          "Advanced DSA, optimization, and system thinking",
		Topics:         []string{"Advanced DP", "Graph Coloring", "Concurrency", "Low-Level Design"},
		Difficulty:     DifficultyMix{Medium: 30, Hard: 50, VeryHard: 20},
		TimeMultiplier: 1.0,
	},
	LevelSenior: {
		Focus:          "System design, complex scaling, and architectural tradeoffs",
		Topics:         []string{"High-Level Design", "Distributed Systems", "Caching Strategies", "Security"},
		Difficulty:     DifficultyMix{Hard: 40, VeryHard: 40, UltraHard: 20},
		TimeMultiplier: 1.0,
	},
	LevelArchitect: {
		Focus:          "Enterprise architecture, reliability, and extreme performance",
		Topics:         []string{"Consensus Protocols", "CAP Theorem", "Fault Tolerance", "Multi-region scaling"},
		Difficulty:     DifficultyMix{VeryHard: 40, UltraHard: 60},
		TimeMultiplier: 1.2,
	},
}

// ParsePositionLevel maps a request string onto a known level, defaulting to
// SDE-1 for unrecognized input.
func ParsePositionLevel(raw string) PositionLevel {
	switch PositionLevel(raw) {
	case LevelIntern, LevelFresher, LevelSDE1, LevelSDE2, LevelSenior, LevelArchitect:
		return PositionLevel(raw)
	default:
		return LevelSDE1
	}
}

// SupportedLanguages lists the code editor languages, in display order.
var SupportedLanguages = []string{"javascript", "typescript", "python", "java", "cpp"}

// IsSupportedLanguage reports whether the language id is one the editor offers.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// StarterTemplates are the per-language fallback editor templates used when a
// coding question does not ship its own starter code for a language.
var StarterTemplates = map[string]string{
	"javascript": "const fs = require('fs');\n\nfunction solve() {\n    // Implement logic below\n}\n\nsolve();",
	"typescript": "import * as fs from 'fs';\n\nfunction solve(): void {\n    // Core Logic\n}\n\nsolve();",
	"python":     "import sys\n\ndef solve():\n    # Implement logic below\n    pass\n\nsolve()",
	"java":       "import java.util.*;\nimport java.io.*;\n\npublic class Solution {\n    public static void main(String[] args) {\n        Scanner sc = new Scanner(System.in);\n    }\n}",
	"cpp":        "#include <iostream>\n#include <vector>\n#include <string>\n#include <algorithm>\n\nusing namespace std;\n\nint main() {\n    ios_base::sync_with_stdio(false);\n    cin.tie(NULL);\n    return 0;\n}",
}

// PracticeTopics is the catalog offered by the practice hub.
var PracticeTopics = []string{
	"Arrays & Hashing",
	"Two Pointers",
	"Sliding Window",
	"Stack",
	"Binary Search",
	"Linked List",
	"Trees",
	"Heaps",
	"Backtracking",
	"Graphs",
	"Dynamic Programming",
	"Bit Manipulation",
	"Advanced Graphs",
	"Math & Geometry",
}
