package repository

import "github.com/atinyakov/CourseKeeper/internal/models"

// SeedCourses returns the records written when the catalog file does not
// exist yet.
func SeedCourses() []models.Course {
	return []models.Course{
		{
			Code:         "FARM_7101",
			TitleES:      "Desarrollo de Intervenciones Avanzadas en Comunicación en Salud",
			TitleEN:      "Development of Advanced Interventions in Health Communications",
			Credits:      3,
			ContactHours: 54,
			Year:         1,
			Semester:     1,
			Status:       models.StatusActive,
			Description:  "Curso centrado en estrategias de comunicación en salud",
			Comments:     "Actualizado 2022",
		},
		{
			Code:         "FARM_7102",
			TitleES:      "Terapéutica Avanzada",
			TitleEN:      "Advanced Therapeutics",
			Credits:      4,
			ContactHours: 60,
			Year:         1,
			Semester:     2,
			Status:       models.StatusActive,
			Description:  "Curso sobre uso clínico avanzado de medicamentos",
			Comments:     "Modificado por comité académico 2021",
		},
	}
}
