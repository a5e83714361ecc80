package usecase

import "github.com/iamvkosarev/health-assistant-bot/internal/model"

const (
	ResponseHeadache = "For a mild headache, drink water, rest in a quiet, dark room and consider an over-the-counter pain reliever as directed on the label. See a doctor if the headache is sudden and severe, follows a head injury, or comes with fever, stiff neck, confusion or vision changes."
	ResponseFever    = "A fever is usually the body fighting an infection. Rest, drink plenty of fluids and monitor your temperature. Seek medical care if it is above 39.4°C (103°F), lasts more than three days, or comes with a rash, stiff neck or difficulty breathing."
	ResponseCold     = "Colds usually clear up within 7 to 10 days. Rest, stay hydrated, and try warm drinks, honey or saline sprays for a sore throat or congestion. Contact a healthcare professional if symptoms get worse or you have trouble breathing."
	ResponseStress   = "Stress and anxiety are common. Slow breathing, regular physical activity, enough sleep and talking to someone you trust can help. If these feelings interfere with daily life, consider reaching out to a mental health professional."
	ResponseSleep    = "Good sleep habits help: keep a regular schedule, limit screens and caffeine before bed, and keep your bedroom cool, dark and quiet. Talk to a doctor if sleep problems last more than a few weeks."
	ResponseDiet     = "A balanced diet rich in fruits, vegetables, whole grains and lean protein supports your overall health. Limit processed foods, added sugar and salt, and drink enough water throughout the day."
	ResponseExercise = "Adults should aim for at least 150 minutes of moderate activity per week, plus muscle-strengthening exercises twice a week. Start slowly and check with a doctor first if you have a chronic condition."
	ResponseMedicine = "Always take medications exactly as prescribed and read the leaflet for dosage and side effects. Ask your pharmacist or doctor before combining medicines or stopping a prescribed treatment."
	ResponseUrgent   = "Chest pain, difficulty breathing, fainting or signs of a stroke may be a medical emergency. Please call your local emergency number or go to the nearest emergency department right away."
	ResponseGreeting = "Hello! Tell me about your symptoms or ask a health question, and I'll share some general guidance."
)

// DefaultIntentRules is ordered: urgent symptoms are checked before anything else.
var DefaultIntentRules = []model.IntentRule{
	{
		Keywords: []string{"chest pain", "can't breathe", "cannot breathe", "faint", "stroke", "emergency"},
		Response: ResponseUrgent,
	},
	{
		Keywords: []string{"headache", "migraine", "head hurts"},
		Response: ResponseHeadache,
	},
	{
		Keywords: []string{"fever", "temperature", "chills"},
		Response: ResponseFever,
	},
	{
		Keywords: []string{"cold", "cough", "sore throat", "runny nose", "flu"},
		Response: ResponseCold,
	},
	{
		Keywords: []string{"stress", "anxiety", "anxious", "depress", "panic"},
		Response: ResponseStress,
	},
	{
		Keywords: []string{"sleep", "insomnia", "tired"},
		Response: ResponseSleep,
	},
	{
		Keywords: []string{"diet", "nutrition", "food", "eating"},
		Response: ResponseDiet,
	},
	{
		Keywords: []string{"exercise", "workout", "fitness", "physical activity"},
		Response: ResponseExercise,
	},
	{
		Keywords: []string{"medicine", "medication", "pill", "dose", "prescription"},
		Response: ResponseMedicine,
	},
	{
		Keywords: []string{"hello", "hi there", "good morning", "good evening"},
		Response: ResponseGreeting,
	},
}

var DefaultFallbackResponses = []string{
	"Based on your symptoms, it could be a common cold, but I recommend consulting with a healthcare professional for a proper diagnosis.",
	"It's important to maintain a balanced diet rich in fruits, vegetables, and whole grains to support your immune system.",
	"For mild headaches, staying hydrated and resting in a quiet, dark room may help provide relief.",
	"Regular exercise can help improve mental health by reducing anxiety, depression, and negative mood.",
	"Remember to take any prescribed medications as directed by your healthcare provider.",
}
