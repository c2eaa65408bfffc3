package services

// Services defined in this package:
// - AuthService: Handles authentication and user registration
// - TermService: Handles operations on academic terms
// - DepartmentService: Handles operations related to departments
// - CourseService: Handles the course catalog and prerequisite graph
// - EnrollmentService: Runs the enrollment engine and enrollment lifecycle
// - GradeService: Records course outcomes
