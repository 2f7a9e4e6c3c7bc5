package services

import (
	"math/rand/v2"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

type Announcement struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Body  string `json:"body"`
}

type FeaturedJob struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Eligibility string    `json:"eligibility"`
	Description string    `json:"description"`
	LastDate    time.Time `json:"last_date"`
}

type Landing struct {
	CareerTip     string         `json:"career_tip"`
	Announcements []Announcement `json:"announcements"`
	FeaturedJobs  []FeaturedJob  `json:"featured_jobs"`
}

var careerTips = []string{
	"Quantify the impact of your projects on your resume.",
	"Run mock interviews that cover both technical and behavioural rounds.",
	"Keep your LinkedIn profile current and professional.",
	"Practise coding problems a little every day rather than in bursts.",
	"Read up on the company's products and culture before the interview.",
}

var announcements = []Announcement{
	{ID: 1, Title: "APAC Recruitment Drive Registration Open", Date: "Today",
		Body: "Eligible CS/IT students can register for the annual APAC drive through the portal."},
	{ID: 2, Title: "Workshop: System Design Interviews", Date: "Tomorrow",
		Body: "An expert-led session on common system design patterns for product company interviews."},
	{ID: 3, Title: "Resume Verification Deadline Extended", Date: "Today",
		Body: "Initial resume verification now closes on Friday. Make sure your latest PDF is uploaded."},
}

// DemoService serves the static landing page content.
type DemoService struct {
	now func() time.Time
}

func NewDemoService() *DemoService {
	return &DemoService{now: time.Now}
}

func (s *DemoService) CareerTip() string {
	return careerTips[rand.IntN(len(careerTips))]
}

func (s *DemoService) Announcements() []Announcement {
	return append([]Announcement(nil), announcements...)
}

// FeaturedJobs deadlines are relative to now so the samples never expire.
func (s *DemoService) FeaturedJobs() []FeaturedJob {
	day := 24 * time.Hour
	now := s.now().UTC()
	return []FeaturedJob{
		{ID: "demo-1", Title: "Software Engineer - AI/ML", Location: "Bangalore, India",
			Eligibility: "B.Tech CS/IT (7.5+ CGPA)",
			Description: "Build agentic AI systems with Python and PyTorch.",
			LastDate:    now.Add(5 * day)},
		{ID: "demo-2", Title: "Full Stack Developer", Location: "Remote",
			Eligibility: "Open to all degrees",
			Description: "Ship scalable web applications end to end. A strong portfolio is required.",
			LastDate:    now.Add(10 * day)},
		{ID: "demo-3", Title: "Data Analyst", Location: "Hyderabad, India",
			Eligibility: "B.Sc/B.Tech with strong analytical skills",
			Description: "Turn client data into decisions. SQL and Tableau are a plus.",
			LastDate:    now.Add(3 * day)},
	}
}

func (s *DemoService) Landing() Landing {
	return Landing{CareerTip: s.CareerTip(), Announcements: s.Announcements(), FeaturedJobs: s.FeaturedJobs()}
}

// AvatarURL falls back to a random seed when seed is empty.
func AvatarURL(seed string) string {
	if seed == "" {
		seed = uuid.NewString()
	}
	return avatarBaseURL + url.QueryEscape(seed)
}
