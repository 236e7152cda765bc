package schemas

// ResumeProfile is the schema for AI resume parsing output
const ResumeProfile = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ResumeProfile",
  "type": "object",
  "required": ["skills", "experience", "education"],
  "properties": {
    "skills": {"type": "array", "items": {"type": "string"}},
    "experience": {"type": "array", "items": {"type": "string"}},
    "education": {"type": "array", "items": {"type": "string"}},
    "certifications": {"type": "array", "items": {"type": "string"}},
    "achievements": {"type": "array", "items": {"type": "string"}}
  },
  "additionalProperties": true
}`

// JobProfile is the schema for AI job description analysis output
const JobProfile = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "JobProfile",
  "type": "object",
  "required": ["skills"],
  "properties": {
    "title": {"type": "string"},
    "company": {"type": "string"},
    "location": {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "experience_requirements": {"type": "array", "items": {"type": "string"}},
    "education_requirements": {"type": "array", "items": {"type": "string"}},
    "required_certifications": {"type": "array", "items": {"type": "string"}},
    "salary_range": {"type": "string"},
    "job_type": {"type": "string"},
    "seniority_level": {"type": "string"},
    "remote_friendly": {"type": "string"}
  },
  "additionalProperties": true
}`

// MatchReport is the schema for AI match scoring output
const MatchReport = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "MatchReport",
  "type": "object",
  "required": ["match_score", "skills_match_score"],
  "properties": {
    "match_score": {"type": "number", "minimum": 0, "maximum": 100},
    "skills_match_score": {"type": "number", "minimum": 0, "maximum": 100},
    "experience_match_score": {"type": "number", "minimum": 0, "maximum": 100},
    "education_match_score": {"type": "number", "minimum": 0, "maximum": 100},
    "keywords_match_score": {"type": "number", "minimum": 0, "maximum": 100},
    "matching_skills": {"type": "array", "items": {"type": "string"}},
    "missing_skills": {"type": "array", "items": {"type": "string"}},
    "matching_keywords": {"type": "array", "items": {"type": "string"}},
    "missing_keywords": {"type": "array", "items": {"type": "string"}},
    "detailed_analysis": {"type": "string"}
  },
  "additionalProperties": true
}`

// InterviewQuestions is the schema for AI interview question output
const InterviewQuestions = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "InterviewQuestions",
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "category"],
        "properties": {
          "question": {"type": "string"},
          "category": {"type": "string"},
          "difficulty": {"type": "string"},
          "hints": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  },
  "additionalProperties": true
}`

// OptimizationReport is the schema for AI resume optimization output
const OptimizationReport = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "OptimizationReport",
  "type": "object",
  "required": ["optimized_resume"],
  "properties": {
    "optimized_resume": {"type": "string"},
    "suggestions": {"type": "array", "items": {"type": "string"}},
    "improvement_areas": {"type": "array", "items": {"type": "string"}}
  },
  "additionalProperties": true
}`
